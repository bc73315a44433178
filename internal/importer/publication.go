package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/thithuypham/folio/internal/publication"
)

// ErrNoVenue is returned for entries without journal, booktitle or any other venue field.
var ErrNoVenue = errors.New("no venue field (journal, booktitle, howpublished, publisher)")

var authorSep = regexp.MustCompile(`\s+and\s+`)

// ParseBibTeX parses BibTeX source and returns publications.
// Entries that do not make valid publications are skipped and reported,
// so one bad entry does not block the rest of the file.
func ParseBibTeX(data []byte) ([]publication.Publication, []error) {
	entries, err := ParseEntries(string(data))
	if err != nil {
		return nil, []error{fmt.Errorf("parsing BibTeX: %w", err)}
	}

	var pubs []publication.Publication
	var errs []error

	for _, e := range entries {
		p, err := entryToPublication(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %s (line %d): %w", e.Key, e.Line, err))
			continue
		}
		pubs = append(pubs, p)
	}

	return pubs, errs
}

// entryToPublication converts a parsed entry and validates the result.
func entryToPublication(e Entry) (publication.Publication, error) {
	f := e.Fields

	p := publication.Publication{
		ID:           e.Key,
		Title:        f["title"],
		Authors:      splitAuthors(f["author"]),
		Venue:        first(f, "journal", "booktitle", "howpublished", "publisher"),
		VenueShort:   first(f, "shortjournal", "shortbooktitle"),
		Year:         f["year"],
		Type:         entryType(e.Type),
		Pages:        f["pages"],
		Volume:       f["volume"],
		Publisher:    f["publisher"],
		Organization: f["organization"],
		Month:        f["month"],
		Status:       status(f),
		DOI:          trimDOI(f["doi"]),
	}

	if p.Year == "" && len(f["date"]) >= 4 {
		p.Year = f["date"][:4] // biblatex date = {2025-09-01}
	}
	if p.Venue == "" {
		return p, ErrNoVenue
	}
	if p.Publisher == p.Venue {
		p.Publisher = ""
	}

	links := make(map[publication.LinkKind]string)
	switch {
	case f["url"] != "":
		links[publication.LinkPaper] = f["url"]
	case p.DOI != "":
		links[publication.LinkPaper] = "https://doi.org/" + p.DOI
	}
	if code := first(f, "code", "github"); code != "" {
		links[publication.LinkCode] = code
	}
	if len(links) > 0 {
		p.Links = links
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// entryType maps BibTeX entry types onto publication types.
func entryType(bibType string) string {
	switch bibType {
	case "article":
		return publication.TypeJournal
	case "inproceedings", "conference", "proceedings":
		return publication.TypeConference
	default:
		return bibType
	}
}

// splitAuthors turns "Pham, Thuy Thi and Lee, Chul" into display names
// in byline order.
func splitAuthors(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var names []string
	for _, raw := range authorSep.Split(strings.TrimSpace(s), -1) {
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		var name string
		switch len(parts) {
		case 1:
			name = parts[0]
		case 2: // Last, First
			name = parts[1] + " " + parts[0]
		default: // Last, Jr, First
			name = parts[2] + " " + parts[0] + " " + parts[1]
		}
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// status reads an explicit status field, or a note that is only a status word.
func status(f map[string]string) string {
	if s := f["status"]; s != "" {
		return strings.ToLower(s)
	}
	switch note := strings.ToLower(f["note"]); note {
	case "accepted", "in press", "to appear":
		return note
	}
	return ""
}

func first(f map[string]string, names ...string) string {
	for _, n := range names {
		if v := f[n]; v != "" {
			return v
		}
	}
	return ""
}

// trimDOI strips resolver prefixes and keeps the DOI's case.
func trimDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "doi.org/", "doi:", "DOI:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return doi
}
