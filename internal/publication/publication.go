// Package publication defines the publication record and the immutable
// collection that every catalog view is derived from.
package publication

import (
	"strconv"
)

// Placeholder is the link value that marks a link as not available.
// It must never be rendered as an actionable link.
const Placeholder = "#"

// Known publication types. Type is an open set; these are the ones the
// presentation layer has labels for.
const (
	TypeJournal    = "journal"
	TypeConference = "conference"
)

// LinkKind names one of the fixed link slots on a record.
type LinkKind string

// Supported link kinds.
const (
	LinkPaper LinkKind = "paper"
	LinkCode  LinkKind = "code"
)

// LinkKinds lists link kinds in display order.
var LinkKinds = []LinkKind{LinkPaper, LinkCode}

// Reserved is the selector value that stands for every record on an axis.
// No record may use it as its type.
const Reserved = "all"

// Publication is one publication's metadata entry.
type Publication struct {
	// Identity
	ID string `json:"id" validate:"required,citekey"` // Citation key, unique in a collection

	// Metadata
	Title      string   `json:"title" validate:"required,nonblank"`
	Authors    []string `json:"authors" validate:"required,min=1,dive,nonblank"` // Byline order
	Venue      string   `json:"venue" validate:"required,nonblank"`
	VenueShort string   `json:"venue_short,omitempty"`
	Year       string   `json:"year" validate:"required,year"` // Four digits; display and sort key
	Type       string   `json:"type" validate:"required,nonblank,notreserved"`

	// Display-only details
	Pages        string `json:"pages,omitempty"`
	Volume       string `json:"volume,omitempty"`
	Publisher    string `json:"publisher,omitempty"`
	Organization string `json:"organization,omitempty"`
	Month        string `json:"month,omitempty"`
	Status       string `json:"status,omitempty"` // e.g. "accepted"

	DOI string `json:"doi,omitempty"`

	Links map[LinkKind]string `json:"links,omitempty" validate:"dive,keys,oneof=paper code,endkeys,linkurl"`
}

// Link is an actionable link of a given kind.
type Link struct {
	Kind LinkKind `json:"kind"`
	URL  string   `json:"url"`
}

// YearNumber returns the numeric year, or 0 if Year is not a number.
func (p Publication) YearNumber() int {
	n, err := strconv.Atoi(p.Year)
	if err != nil {
		return 0
	}
	return n
}

// Link returns the URL for kind when it is actionable.
// Missing links and the placeholder both report false.
func (p Publication) Link(kind LinkKind) (string, bool) {
	url, ok := p.Links[kind]
	if !ok || url == "" || url == Placeholder {
		return "", false
	}
	return url, true
}

// ActionableLinks returns the record's usable links in LinkKinds order.
func (p Publication) ActionableLinks() []Link {
	var links []Link
	for _, kind := range LinkKinds {
		if url, ok := p.Link(kind); ok {
			links = append(links, Link{Kind: kind, URL: url})
		}
	}
	return links
}

// PublisherLine returns the publisher, falling back to the organization.
func (p Publication) PublisherLine() string {
	if p.Publisher != "" {
		return p.Publisher
	}
	return p.Organization
}

// clone returns a copy that shares no slices or maps with p.
func (p Publication) clone() Publication {
	c := p
	if p.Authors != nil {
		c.Authors = append([]string(nil), p.Authors...)
	}
	if p.Links != nil {
		c.Links = make(map[LinkKind]string, len(p.Links))
		for k, v := range p.Links {
			c.Links[k] = v
		}
	}
	return c
}
