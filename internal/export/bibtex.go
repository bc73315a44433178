// Package export provides functions to export publications to various formats.
package export

import (
	"fmt"
	"strings"

	"github.com/thithuypham/folio/internal/publication"
)

// ToBibTeX converts a publication to BibTeX format.
func ToBibTeX(p publication.Publication) string {
	entryType := determineEntryType(p)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, p.ID))

	if len(p.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(p.Authors)))
	}

	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(p.Title)))

	// Venue
	if p.Venue != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(p.Venue)))
	}

	writeOptional(&b, "volume", p.Volume)
	writeOptional(&b, "pages", p.Pages)
	b.WriteString(fmt.Sprintf("  year = {%s},\n", p.Year))
	writeOptional(&b, "month", p.Month)
	writeOptional(&b, "publisher", p.Publisher)
	writeOptional(&b, "organization", p.Organization)

	// DOI and URL are written verbatim
	if p.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", p.DOI))
	}
	if url, ok := p.Link(publication.LinkPaper); ok {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", url))
	}

	writeOptional(&b, "note", p.Status)

	b.WriteString("}\n")

	return b.String()
}

func writeOptional(b *strings.Builder, field, value string) {
	if value == "" {
		return
	}
	b.WriteString(fmt.Sprintf("  %s = {%s},\n", field, escapeLatex(value)))
}

// ToBibTeXList converts multiple publications to BibTeX format.
func ToBibTeXList(pubs []publication.Publication) string {
	var entries []string
	for _, p := range pubs {
		entries = append(entries, ToBibTeX(p))
	}
	return strings.Join(entries, "\n")
}

// determineEntryType returns the BibTeX entry type for a publication.
// Known types map directly; anything else is guessed from the venue.
func determineEntryType(p publication.Publication) string {
	switch p.Type {
	case publication.TypeJournal:
		return "article"
	case publication.TypeConference:
		return "inproceedings"
	}

	venue := strings.ToLower(p.Venue)

	// Preprints
	if strings.Contains(venue, "arxiv") ||
		strings.Contains(venue, "biorxiv") ||
		strings.Contains(venue, "medrxiv") {
		return "article"
	}

	// Conference proceedings
	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}

	return "misc"
}

// formatAuthors joins display names with BibTeX's " and " separator.
func formatAuthors(authors []string) string {
	escaped := make([]string, len(authors))
	for i, a := range authors {
		escaped[i] = escapeLatex(a)
	}
	return strings.Join(escaped, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
