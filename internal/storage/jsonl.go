// Package storage handles data persistence in JSONL and SQLite formats.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thithuypham/folio/internal/publication"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
// This constant is shared across all JSONL file readers.
const MaxJSONLLineCapacity = 1024 * 1024

// PubWithAction pairs a publication with an import action.
type PubWithAction struct {
	Pub         publication.Publication
	Action      string // new, update
	ExistingIdx int    // Index in existing publications (for updates)
}

// ReadAll reads all publications from a JSONL file.
// A missing file reads as an empty catalog. Records are not validated
// here; use LoadCollection for a validated catalog.
func ReadAll(path string) ([]publication.Publication, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Empty file returns empty slice
		}
		return nil, fmt.Errorf("opening publications file: %w", err)
	}
	defer f.Close()

	var pubs []publication.Publication
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue // Skip empty lines
		}

		var p publication.Publication
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		pubs = append(pubs, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading publications file: %w", err)
	}

	return pubs, nil
}

// LoadCollection reads a JSONL catalog and validates it into an immutable
// collection. Validation failures come back as *publication.ValidationError.
func LoadCollection(path string) (*publication.Collection, error) {
	pubs, err := ReadAll(path)
	if err != nil {
		return nil, err
	}
	return publication.NewCollection(pubs)
}

// writePubJSONL marshals a publication to JSON and writes it as a JSONL line.
func writePubJSONL(w io.Writer, p publication.Publication) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding publication %s: %w", p.ID, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing publication %s: %w", p.ID, err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}
	return nil
}

// Append adds a publication to the end of a JSONL file.
func Append(path string, p publication.Publication) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening publications file for append: %w", err)
	}
	defer f.Close()

	return writePubJSONL(f, p)
}

// WriteAll writes all publications to a JSONL file, replacing existing content.
func WriteAll(path string, pubs []publication.Publication) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating publications file: %w", err)
	}
	defer f.Close()

	for _, p := range pubs {
		if err := writePubJSONL(f, p); err != nil {
			return err
		}
	}

	return nil
}

// FindByDOI searches for a publication by DOI (case-insensitive).
func FindByDOI(pubs []publication.Publication, doi string) (int, bool) {
	if doi == "" {
		return -1, false
	}
	for i, p := range pubs {
		if p.DOI != "" && strings.EqualFold(p.DOI, doi) {
			return i, true
		}
	}
	return -1, false
}

// FindByID searches for a publication by ID.
func FindByID(pubs []publication.Publication, id string) (int, bool) {
	for i, p := range pubs {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// GenerateUniqueID returns an ID that doesn't conflict with existing publications.
// If the base ID exists, appends -2, -3, etc.
func GenerateUniqueID(pubs []publication.Publication, baseID string) string {
	if _, found := FindByID(pubs, baseID); !found {
		return baseID
	}

	// Start at 2: baseID is taken, so first duplicate becomes baseID-2
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", baseID, i)
		if _, found := FindByID(pubs, candidate); !found {
			return candidate
		}
	}
}
