package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/thithuypham/folio/internal/publication"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50

	ImportTitleMaxLen = 60 // import command output
	ListTitleMaxLen   = 70 // list and search output
	DetailTitleMaxLen = 70 // get command detail view

	TextWrapWidth = 60
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...any) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// wrapText wraps text to the specified width with indentation on subsequent lines.
func wrapText(text string, width int, indent string) string {
	if len(text) <= width {
		return text
	}

	var lines []string
	var current strings.Builder

	for _, word := range strings.Fields(text) {
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case current.Len()+1+len(word) <= width:
			current.WriteString(" ")
			current.WriteString(word)
		default:
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
		}
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	return strings.Join(lines, "\n"+indent)
}

// formatAuthorsShort lists up to maxCount authors, then "et al.".
func formatAuthorsShort(authors []string, maxCount int) string {
	if len(authors) <= maxCount {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:maxCount], ", ") + ", et al."
}

// printPubLine prints the one-line summary used by list and search.
func printPubLine(p publication.Publication) {
	fmt.Printf("%s  [%s] %s\n", p.ID, p.Type, truncateString(p.Title, ListTitleMaxLen))
	fmt.Printf("    %s. %s, %s\n", formatAuthorsShort(p.Authors, 3), venueLabel(p), p.Year)
}

func venueLabel(p publication.Publication) string {
	if p.VenueShort != "" {
		return p.VenueShort
	}
	return p.Venue
}
