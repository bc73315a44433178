package project

import (
	"errors"
	"testing"
)

func TestProject_ValidateForCreate(t *testing.T) {
	tests := []struct {
		name    string
		project Project
		wantErr error
	}{
		{
			name:    "valid project",
			project: Project{ID: "fedhealth", Title: "FedHealth", Status: StatusActive},
			wantErr: nil,
		},
		{
			name: "valid project with links",
			project: Project{
				ID: "securefl", Title: "SecureFL", Status: StatusMaintained,
				Links: []Link{{Label: "GitHub", URL: "#", Type: "code"}},
			},
			wantErr: nil,
		},
		{
			name:    "empty id",
			project: Project{ID: "", Title: "FedHealth", Status: StatusActive},
			wantErr: ErrEmptyID,
		},
		{
			name:    "id with uppercase",
			project: Project{ID: "FedHealth", Title: "FedHealth", Status: StatusActive},
			wantErr: ErrInvalidID,
		},
		{
			name:    "id starting with hyphen",
			project: Project{ID: "-fed", Title: "FedHealth", Status: StatusActive},
			wantErr: ErrInvalidID,
		},
		{
			name:    "empty title",
			project: Project{ID: "fedhealth", Status: StatusActive},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "unknown status",
			project: Project{ID: "fedhealth", Title: "FedHealth", Status: "Paused"},
			wantErr: ErrUnknownStatus,
		},
		{
			name: "link without label",
			project: Project{
				ID: "fedhealth", Title: "FedHealth", Status: StatusActive,
				Links: []Link{{URL: "https://example.org"}},
			},
			wantErr: ErrEmptyLinkLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project.ValidateForCreate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateForCreate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	projects := []Project{
		{ID: "fedhealth", Status: StatusActive},
		{ID: "securefl", Status: StatusMaintained},
		{ID: "privatevision", Status: StatusCompleted},
		{ID: "fedfinance", Status: StatusActive},
		{ID: "edufl", Status: StatusPilot},
		{ID: "medfl", Status: StatusResearch},
		{ID: "mystery", Status: "Unknown"},
	}

	active, completed := Partition(projects)

	wantActive := []string{"fedhealth", "fedfinance", "edufl", "medfl"}
	wantCompleted := []string{"securefl", "privatevision"}

	if len(active) != len(wantActive) {
		t.Fatalf("active = %v, want %v", active, wantActive)
	}
	for i, id := range wantActive {
		if active[i].ID != id {
			t.Errorf("active[%d] = %s, want %s", i, active[i].ID, id)
		}
	}
	if len(completed) != len(wantCompleted) {
		t.Fatalf("completed = %v, want %v", completed, wantCompleted)
	}
	for i, id := range wantCompleted {
		if completed[i].ID != id {
			t.Errorf("completed[%d] = %s, want %s", i, completed[i].ID, id)
		}
	}
}

func TestPartition_Empty(t *testing.T) {
	active, completed := Partition(nil)
	if active == nil || completed == nil {
		t.Error("Partition(nil) should return empty, non-nil slices")
	}
}

func TestActionableLinks(t *testing.T) {
	p := Project{Links: []Link{
		{Label: "GitHub", URL: "#", Type: "code"},
		{Label: "Demo", URL: "https://demo.example.org", Type: "demo"},
		{Label: "Paper", URL: "", Type: "paper"},
	}}

	links := p.ActionableLinks()
	if len(links) != 1 || links[0].Label != "Demo" {
		t.Errorf("ActionableLinks() = %v, want only Demo", links)
	}
}

func TestLinkIcon(t *testing.T) {
	if LinkIcon("demo") != "🚀" || LinkIcon("code") != "🔗" || LinkIcon("whatever") != "🔗" {
		t.Error("LinkIcon() returned an unexpected icon")
	}
}
