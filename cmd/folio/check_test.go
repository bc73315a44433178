package main

import (
	"testing"

	"github.com/thithuypham/folio/internal/publication"
)

func TestCheckPublications_Clean(t *testing.T) {
	pubs := []publication.Publication{
		pub("pub1", "10.1234/abc", "Paper One"),
		pub("pub2", "", "Paper Two"),
		pub("pub3", "", "Paper Three"),
	}
	if issues := checkPublications(pubs); len(issues) != 0 {
		t.Errorf("checkPublications() = %+v, want no issues", issues)
	}
}

func TestCheckPublications_DuplicateDOI(t *testing.T) {
	pubs := []publication.Publication{
		pub("pub1", "10.1234/ABC", "Paper One"),
		pub("pub2", "10.1234/abc", "Paper Two"),
		pub("pub3", "10.5678/xyz", "Paper Three"),
	}

	issues := checkPublications(pubs)
	if len(issues) != 1 {
		t.Fatalf("checkPublications() returned %d issues, want 1: %+v", len(issues), issues)
	}
	is := issues[0]
	if is.Type != "duplicate_doi" {
		t.Errorf("Type = %q, want duplicate_doi", is.Type)
	}
	if is.DOI != "10.1234/abc" {
		t.Errorf("DOI = %q, want 10.1234/abc", is.DOI)
	}
	if len(is.IDs) != 2 || is.IDs[0] != "pub1" || is.IDs[1] != "pub2" {
		t.Errorf("IDs = %v, want [pub1 pub2]", is.IDs)
	}
}

func TestCheckPublications_InvalidRecord(t *testing.T) {
	bad := pub("pub2", "", "Paper Two")
	bad.Year = "20x3"
	pubs := []publication.Publication{pub("pub1", "", "Paper One"), bad}

	issues := checkPublications(pubs)
	if len(issues) == 0 {
		t.Fatal("checkPublications() returned no issues for a bad year")
	}
	for _, is := range issues {
		if is.Type != "invalid_record" || is.ID != "pub2" {
			t.Errorf("unexpected issue %+v", is)
		}
	}
}

func TestCheckPublications_DuplicateID(t *testing.T) {
	pubs := []publication.Publication{pub("pub1", "", "Paper One"), pub("pub1", "", "Paper One again")}

	issues := checkPublications(pubs)
	found := false
	for _, is := range issues {
		if is.Type == "invalid_record" && is.Field == "id" {
			found = true
		}
	}
	if !found {
		t.Errorf("checkPublications() = %+v, want an id issue", issues)
	}
}
