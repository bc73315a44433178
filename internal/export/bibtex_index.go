package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/thithuypham/folio/internal/importer"
	"github.com/thithuypham/folio/internal/publication"
)

// BibTeXIndex indexes existing BibTeX entries for deduplication.
type BibTeXIndex struct {
	// Keys maps citation keys to true for existence check
	Keys map[string]bool
	// DOIs maps normalized DOI values to citation keys
	DOIs map[string]string
}

// NewBibTeXIndex creates an empty BibTeX index.
func NewBibTeXIndex() *BibTeXIndex {
	return &BibTeXIndex{
		Keys: make(map[string]bool),
		DOIs: make(map[string]string),
	}
}

// Add records an entry.
func (idx *BibTeXIndex) Add(key, doi string) {
	idx.Keys[key] = true
	if d := normalizeDOI(doi); d != "" {
		idx.DOIs[d] = key
	}
}

// HasEntry returns true if the entry already exists (by DOI or key).
// DOI is the primary match; citation key is the fallback.
func (idx *BibTeXIndex) HasEntry(key, doi string) bool {
	if d := normalizeDOI(doi); d != "" {
		if _, exists := idx.DOIs[d]; exists {
			return true
		}
	}
	return idx.Keys[key]
}

// Missing returns the publications not yet in the index, in input order,
// and adds them so repeats within pubs are dropped too.
func (idx *BibTeXIndex) Missing(pubs []publication.Publication) []publication.Publication {
	var out []publication.Publication
	for _, p := range pubs {
		if idx.HasEntry(p.ID, p.DOI) {
			continue
		}
		idx.Add(p.ID, p.DOI)
		out = append(out, p)
	}
	return out
}

// IndexBibTeXFile builds an index from an existing .bib file.
// Returns an empty index if the file doesn't exist.
func IndexBibTeXFile(path string) (*BibTeXIndex, error) {
	idx := NewBibTeXIndex()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	entries, err := importer.ParseEntries(string(data))
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", path, err)
	}
	for _, e := range entries {
		idx.Add(e.Key, e.Fields["doi"])
	}
	return idx, nil
}

// normalizeDOI normalizes a DOI for comparison.
// Removes common prefixes like "https://doi.org/" and lowercases.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}

// AppendToBibFile appends BibTeX content to a file.
func AppendToBibFile(path, content string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	// Ensure we start on a new line
	_, err = file.WriteString("\n" + content)
	return err
}
