// Package render writes the publication and project pages as HTML.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/thithuypham/folio/internal/catalog"
	"github.com/thithuypham/folio/internal/project"
	"github.com/thithuypham/folio/internal/publication"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// compiledTemplates is parsed at init time to fail fast on template errors.
var compiledTemplates *template.Template

func init() {
	compiledTemplates = template.Must(template.New("pages").Funcs(template.FuncMap{
		"byline":    func(authors []string, highlight string) template.HTML { return Byline(authors, highlight) },
		"typeIcon":  TypeIcon,
		"typeLabel": TypeLabel,
		"linkIcon":  linkIcon,
		"linkLabel": linkLabel,
		"projIcon":  project.LinkIcon,
	}).ParseFS(templateFS, "templates/*.html.tmpl"))
}

// EmptyMessage is shown when no publication matches the selection.
const EmptyMessage = "no publications found for the selected criteria"

// Options configures page generation.
type Options struct {
	Title       string
	Description string

	// HighlightAuthor is wrapped in <strong> wherever it appears in a byline.
	HighlightAuthor string

	// Action is the URL the filter form submits to. Empty submits to the
	// page itself.
	Action string
}

// DefaultOptions returns default page options.
func DefaultOptions() Options {
	return Options{Title: "Publications"}
}

type publicationsData struct {
	Options
	View    catalog.View
	Summary catalog.Summary
	Empty   string
}

// Publications writes the publications page for view. summary covers the
// whole catalog and feeds the footer line.
func Publications(w io.Writer, view catalog.View, summary catalog.Summary, opts Options) error {
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}
	data := publicationsData{
		Options: opts,
		View:    view,
		Summary: summary,
		Empty:   EmptyMessage,
	}
	return execute(w, "publications.html.tmpl", data)
}

type projectsData struct {
	Options
	Active    []project.Project
	Completed []project.Project
	Total     int
}

// Projects writes the portfolio page with active and completed sections.
func Projects(w io.Writer, projects []project.Project, opts Options) error {
	if opts.Title == "" {
		opts.Title = "Research Projects"
	}
	active, completed := project.Partition(projects)
	data := projectsData{
		Options:   opts,
		Active:    active,
		Completed: completed,
		Total:     len(projects),
	}
	return execute(w, "projects.html.tmpl", data)
}

// execute renders into a buffer first so a template error never leaves
// half a page on w.
func execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := compiledTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// Byline joins authors as "A", "A and B" or "A, B, and C", escaping each
// name and emphasising the highlighted author.
func Byline(authors []string, highlight string) template.HTML {
	names := make([]string, len(authors))
	for i, a := range authors {
		esc := template.HTMLEscapeString(a)
		if highlight != "" && a == highlight {
			esc = "<strong>" + esc + "</strong>"
		}
		names[i] = esc
	}

	switch len(names) {
	case 0:
		return ""
	case 1:
		return template.HTML(names[0])
	case 2:
		return template.HTML(names[0] + " and " + names[1])
	default:
		last := len(names) - 1
		return template.HTML(strings.Join(names[:last], ", ") + ", and " + names[last])
	}
}

// TypeIcon returns the card icon for a publication type.
func TypeIcon(typ string) string {
	if typ == publication.TypeConference {
		return "📋"
	}
	return "📄"
}

// TypeLabel returns the card label for a publication type. Unknown types
// are labelled "publication".
func TypeLabel(typ string) string {
	switch typ {
	case publication.TypeJournal, publication.TypeConference:
		return typ
	default:
		return "publication"
	}
}

func linkIcon(kind publication.LinkKind) string {
	if kind == publication.LinkCode {
		return "💻"
	}
	return "📄"
}

func linkLabel(kind publication.LinkKind) string {
	return strings.ToUpper(string(kind))
}
