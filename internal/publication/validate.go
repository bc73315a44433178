package publication

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	citekeyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_:.-]*$`)
	yearPattern    = regexp.MustCompile(`^[0-9]{4}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON field names so messages match what users edit in the JSONL.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "citekey", func(fl validator.FieldLevel) bool {
		return citekeyPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "year", func(fl validator.FieldLevel) bool {
		return yearPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "notreserved", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != Reserved
	})
	mustRegister(v, "linkurl", func(fl validator.FieldLevel) bool {
		return validLinkURL(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// validLinkURL accepts the placeholder or an absolute http(s) URL.
func validLinkURL(s string) bool {
	if s == Placeholder {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FieldProblem describes one invalid field on a record.
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RecordError is returned by Validate for a structurally invalid record.
type RecordError struct {
	ID       string
	Problems []FieldProblem
}

func (e *RecordError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + " " + p.Message
	}
	id := e.ID
	if id == "" {
		id = "(no id)"
	}
	return fmt.Sprintf("invalid publication %s: %s", id, strings.Join(parts, "; "))
}

// Validate checks the record's structure. It returns a *RecordError
// listing every invalid field, or nil.
func (p Publication) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	rec := &RecordError{ID: p.ID}
	for _, fe := range fieldErrs {
		rec.Problems = append(rec.Problems, FieldProblem{
			Field:   fieldPath(fe),
			Message: friendlyMessage(fe),
		})
	}
	sort.SliceStable(rec.Problems, func(i, j int) bool {
		return rec.Problems[i].Field < rec.Problems[j].Field
	})
	return rec
}

// fieldPath strips the struct name from the validator namespace,
// leaving e.g. "authors[1]" or "links[paper]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "nonblank":
		return "must not be blank"
	case "citekey":
		return "must start with a letter or digit and contain only letters, digits, '_', ':', '.', '-'"
	case "year":
		return "must be a four-digit year"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "notreserved":
		return fmt.Sprintf("must not be %q, which the type selector uses for every type", Reserved)
	case "linkurl":
		return fmt.Sprintf("must be %q or an absolute http(s) URL", Placeholder)
	default:
		return "is invalid"
	}
}

// Issue is one problem found while checking a set of records.
type Issue struct {
	Index   int    `json:"index"` // Position in the input, 0-based
	ID      string `json:"id,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("record %d (%s): %s %s", i.Index+1, i.ID, i.Field, i.Message)
}

// ValidationError aggregates every issue that kept a collection from loading.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid catalog: " + e.Issues[0].String()
	}
	return fmt.Sprintf("invalid catalog: %d issues, first: %s", len(e.Issues), e.Issues[0].String())
}

// Check validates every record and the uniqueness of ids.
// Issues are returned in input order.
func Check(pubs []Publication) []Issue {
	var issues []Issue
	firstSeen := make(map[string]int, len(pubs))

	for i, p := range pubs {
		if err := p.Validate(); err != nil {
			var rec *RecordError
			if errors.As(err, &rec) {
				for _, prob := range rec.Problems {
					issues = append(issues, Issue{Index: i, ID: p.ID, Field: prob.Field, Message: prob.Message})
				}
			} else {
				issues = append(issues, Issue{Index: i, ID: p.ID, Field: "record", Message: err.Error()})
			}
		}

		if p.ID == "" {
			continue
		}
		if j, dup := firstSeen[p.ID]; dup {
			issues = append(issues, Issue{
				Index:   i,
				ID:      p.ID,
				Field:   "id",
				Message: fmt.Sprintf("duplicates record %d", j+1),
			})
			continue
		}
		firstSeen[p.ID] = i
	}

	return issues
}
