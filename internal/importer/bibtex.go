// Package importer provides functions to import publications from external formats.
package importer

import (
	"fmt"
	"strings"
	"unicode"
)

// Entry is one parsed BibTeX entry. Field names are lowercased and values
// are unescaped plain text.
type Entry struct {
	Type   string // Lowercased entry type, e.g. "article"
	Key    string
	Line   int // 1-based line of the '@'
	Fields map[string]string
}

// monthMacros are BibTeX's predefined month strings, written the way the
// publications page shows months.
var monthMacros = map[string]string{
	"jan": "Jan.", "feb": "Feb.", "mar": "Mar.", "apr": "Apr.",
	"may": "May", "jun": "Jun.", "jul": "Jul.", "aug": "Aug.",
	"sep": "Sep.", "oct": "Oct.", "nov": "Nov.", "dec": "Dec.",
}

// ParseEntries parses BibTeX source into entries.
// @string definitions are expanded, @comment and @preamble are skipped,
// and text outside entries is ignored.
func ParseEntries(src string) ([]Entry, error) {
	p := &bibParser{src: src, macros: make(map[string]string)}
	for k, v := range monthMacros {
		p.macros[k] = v
	}
	return p.parse()
}

type bibParser struct {
	src    string
	pos    int
	macros map[string]string
}

func (p *bibParser) errorf(format string, args ...any) error {
	line := 1 + strings.Count(p.src[:p.pos], "\n")
	return fmt.Errorf("bibtex line %d: %s", line, fmt.Sprintf(format, args...))
}

func (p *bibParser) eof() bool { return p.pos >= len(p.src) }

func (p *bibParser) peek() byte { return p.src[p.pos] }

func (p *bibParser) skipSpace() {
	for !p.eof() && unicode.IsSpace(rune(p.peek())) {
		p.pos++
	}
}

func (p *bibParser) ident() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if unicode.IsSpace(rune(c)) || strings.IndexByte("{}(),=#\"@", c) >= 0 {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *bibParser) expect(c byte) error {
	p.skipSpace()
	if p.eof() || p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *bibParser) parse() ([]Entry, error) {
	var entries []Entry
	for {
		at := strings.IndexByte(p.src[p.pos:], '@')
		if at < 0 {
			return entries, nil
		}
		p.pos += at
		line := 1 + strings.Count(p.src[:p.pos], "\n")
		p.pos++

		// A stray '@' outside an entry is comment text.
		typ := strings.ToLower(p.ident())
		p.skipSpace()
		if typ == "" || p.eof() || (p.peek() != '{' && p.peek() != '(') {
			continue
		}
		closer := byte('}')
		if p.peek() == '(' {
			closer = ')'
		}

		switch typ {
		case "comment", "preamble":
			if _, err := p.group(p.peek(), closer); err != nil {
				return nil, err
			}
			continue
		case "string":
			p.pos++
			name, value, err := p.field()
			if err != nil {
				return nil, err
			}
			p.macros[name] = value
			if err := p.expect(closer); err != nil {
				return nil, err
			}
			continue
		}

		p.pos++
		entry, err := p.entry(typ, closer)
		if err != nil {
			return nil, err
		}
		entry.Line = line
		entries = append(entries, entry)
	}
}

func (p *bibParser) entry(typ string, closer byte) (Entry, error) {
	e := Entry{Type: typ, Fields: make(map[string]string)}

	p.skipSpace()
	start := p.pos
	for !p.eof() && p.peek() != ',' && p.peek() != closer {
		p.pos++
	}
	e.Key = strings.TrimSpace(p.src[start:p.pos])
	if e.Key == "" {
		return e, p.errorf("@%s entry without a citation key", typ)
	}

	for {
		p.skipSpace()
		if p.eof() {
			return e, p.errorf("unterminated entry %s", e.Key)
		}
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case closer:
			p.pos++
			return e, nil
		}

		name, value, err := p.field()
		if err != nil {
			return e, err
		}
		e.Fields[name] = value
	}
}

// field parses name = value, where value may concatenate parts with '#'.
func (p *bibParser) field() (string, string, error) {
	p.skipSpace()
	name := strings.ToLower(p.ident())
	if name == "" {
		return "", "", p.errorf("expected field name")
	}
	if err := p.expect('='); err != nil {
		return "", "", err
	}

	var parts []string
	for {
		p.skipSpace()
		if p.eof() {
			return "", "", p.errorf("missing value for %s", name)
		}

		switch p.peek() {
		case '{':
			s, err := p.group('{', '}')
			if err != nil {
				return "", "", err
			}
			parts = append(parts, s)
		case '"':
			s, err := p.quoted()
			if err != nil {
				return "", "", err
			}
			parts = append(parts, s)
		default:
			word := p.ident()
			if word == "" {
				return "", "", p.errorf("missing value for %s", name)
			}
			if v, ok := p.macros[strings.ToLower(word)]; ok {
				word = v
			}
			parts = append(parts, word)
		}

		p.skipSpace()
		if p.eof() || p.peek() != '#' {
			break
		}
		p.pos++
	}

	return name, cleanValue(strings.Join(parts, "")), nil
}

// group returns the text inside a balanced open...close group and moves
// past it. Backslash-escaped delimiters do not count.
func (p *bibParser) group(open, shut byte) (string, error) {
	start := p.pos
	depth := 0
	for !p.eof() {
		switch c := p.peek(); {
		case c == '\\':
			p.pos++
		case c == open:
			depth++
		case c == shut:
			depth--
			if depth == 0 {
				p.pos++
				return p.src[start+1 : p.pos-1], nil
			}
		}
		p.pos++
	}
	p.pos = start
	return "", p.errorf("unbalanced %q", open)
}

func (p *bibParser) quoted() (string, error) {
	start := p.pos
	p.pos++
	depth := 0
	for !p.eof() {
		switch p.peek() {
		case '\\':
			p.pos++
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				p.pos++
				return p.src[start+1 : p.pos-1], nil
			}
		}
		p.pos++
	}
	p.pos = start
	return "", p.errorf("unterminated string")
}

var latexReplacer = strings.NewReplacer(
	`\&`, "&",
	`\%`, "%",
	`\$`, "$",
	`\#`, "#",
	`\_`, "_",
	`\{`, "\x00",
	`\}`, "\x01",
	`\textasciitilde{}`, "~",
	`\textasciicircum{}`, "^",
)

// cleanValue unescapes LaTeX specials, drops grouping braces and collapses
// whitespace.
func cleanValue(s string) string {
	s = latexReplacer.Replace(s)
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	s = strings.NewReplacer("\x00", "{", "\x01", "}").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
