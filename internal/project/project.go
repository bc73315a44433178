// Package project defines portfolio projects shown next to the publication list.
package project

import (
	"errors"
	"regexp"
)

// Project is one research or engineering project in the portfolio.
type Project struct {
	ID           string   `json:"id"`    // Required: unique identifier
	Title        string   `json:"title"` // Required: display title
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Category     string   `json:"category,omitempty"`
	Status       string   `json:"status"`         // Required: one of the Status* values
	Year         string   `json:"year,omitempty"` // Free-form, e.g. "2022-Present"
	Funding      string   `json:"funding,omitempty"`
	Links        []Link   `json:"links,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// Link is a labelled project link. Type selects the icon.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Type  string `json:"type,omitempty"` // code, demo, paper, docs, tutorial, package, report
}

// Project statuses.
const (
	StatusActive        = "Active"
	StatusPilot         = "Pilot Phase"
	StatusResearch      = "Research Phase"
	StatusCompleted     = "Completed"
	StatusMaintained    = "Maintained"
	placeholderLinkHref = "#"
)

// IDPattern is the regex pattern for valid project IDs.
// Must start with alphanumeric, followed by alphanumeric, hyphens, or underscores.
var IDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validation errors.
var (
	ErrEmptyID         = errors.New("id is required")
	ErrInvalidID       = errors.New("id must match pattern: lowercase alphanumeric, hyphens, underscores; must start with alphanumeric")
	ErrEmptyTitle      = errors.New("title is required")
	ErrUnknownStatus   = errors.New("status must be one of: Active, Pilot Phase, Research Phase, Completed, Maintained")
	ErrEmptyLinkLabel  = errors.New("link label is required")
	ErrDuplicateID     = errors.New("project with this id already exists")
	ErrProjectNotFound = errors.New("project not found")
)

// ValidateForCreate validates a project for creation.
// Returns an error if any required field is missing or invalid.
func (p *Project) ValidateForCreate() error {
	if err := ValidateID(p.ID); err != nil {
		return err
	}
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if !IsActive(p.Status) && !IsCompleted(p.Status) {
		return ErrUnknownStatus
	}
	for _, l := range p.Links {
		if l.Label == "" {
			return ErrEmptyLinkLabel
		}
	}
	return nil
}

// ValidateID validates just the ID field (useful for lookup operations).
func ValidateID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if !IDPattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

// IsActive reports whether status counts as ongoing work.
func IsActive(status string) bool {
	switch status {
	case StatusActive, StatusPilot, StatusResearch:
		return true
	}
	return false
}

// IsCompleted reports whether status counts as finished work.
func IsCompleted(status string) bool {
	return status == StatusCompleted || status == StatusMaintained
}

// Partition splits projects into active and completed lists, keeping input order.
// Projects with any other status appear in neither.
func Partition(projects []Project) (active, completed []Project) {
	active, completed = []Project{}, []Project{}
	for _, p := range projects {
		switch {
		case IsActive(p.Status):
			active = append(active, p)
		case IsCompleted(p.Status):
			completed = append(completed, p)
		}
	}
	return active, completed
}

// ActionableLinks returns the links that point somewhere.
func (p Project) ActionableLinks() []Link {
	var links []Link
	for _, l := range p.Links {
		if l.URL == "" || l.URL == placeholderLinkHref {
			continue
		}
		links = append(links, l)
	}
	return links
}

// LinkIcon returns the display icon for a link type.
func LinkIcon(linkType string) string {
	switch linkType {
	case "demo":
		return "🚀"
	case "paper":
		return "📄"
	case "docs":
		return "📚"
	case "tutorial":
		return "🎓"
	case "package":
		return "📦"
	case "report":
		return "📊"
	default:
		return "🔗"
	}
}
