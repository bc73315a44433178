// Package pdf reads identifying metadata out of publication PDFs.
package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// scanPages is how many leading pages are searched. The DOI is almost
// always on the first page.
const scanPages = 3

// Metadata is what could be recovered from a PDF. Empty fields mean not found.
type Metadata struct {
	DOI   string `json:"doi,omitempty"`
	Title string `json:"title,omitempty"`
	Pages int    `json:"pages"`
}

// Extract reads the DOI and a best-guess title from a PDF file.
// Finding nothing is not an error.
func Extract(filePath string) (Metadata, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return Metadata{}, fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	meta := Metadata{Pages: r.NumPage()}

	for i := 1; i <= min(scanPages, r.NumPage()); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if i == 1 {
			meta.Title = titleLine(text)
		}
		if meta.DOI == "" {
			meta.DOI = findDOI(text)
		}
		if meta.DOI != "" {
			break
		}
	}

	return meta, nil
}

// ExtractDOI extracts a DOI from a PDF file.
// Returns "" with a nil error when the PDF has none.
func ExtractDOI(filePath string) (string, error) {
	meta, err := Extract(filePath)
	return meta.DOI, err
}

// titleLine returns the first substantial line that is not a running header.
// This is a heuristic; PDFs carry no reliable title structure.
func titleLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !isHeaderLine(line) {
			return line
		}
	}
	return ""
}

// findDOI finds a DOI in text.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	// Must have something after the /
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}

// isHeaderLine checks if a line is likely a header/footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "journal"),
		strings.Contains(lower, "copyright"),
		strings.Contains(lower, "volume") && strings.Contains(lower, "issue"),
		strings.Contains(lower, "article") && strings.Contains(lower, "published"):
		return true
	}
	return false
}
