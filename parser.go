package prm

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// Scanner wraps a bufio.Scanner with line-number tracking.
type Scanner struct {
	*bufio.Scanner
	lineNum int
}

// NewScanner creates a new Scanner from an io.Reader.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		Scanner: bufio.NewScanner(r),
		lineNum: 0,
	}
}

// NextLine advances the scanner and returns the current line number and text.
func (s *Scanner) NextLine() (int, string, bool) {
	if !s.Scan() {
		return s.lineNum, "", false
	}
	s.lineNum++
	return s.lineNum, s.Text(), true
}

var (
	subsectionRe = regexp.MustCompile(`^subsection\s+(.+)$`)
	// Lazy key up to the first =, lazy value, optional trailing ", type"
	// where the type is the final run of non-space characters.
	setRe = regexp.MustCompile(`^set\s+(.+?)\s*=\s*(.+?)(?:\s*,\s*(\S+))?$`)
)

// Parser reads line-oriented parameter files. A Parser keeps no state across
// calls, so one instance may parse independent inputs concurrently.
type Parser struct {
	skipEmptyLine func(string) bool
	skipComment   func(string) bool
	logger        *slog.Logger
}

// NewParser creates a new Parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		skipEmptyLine: func(line string) bool { return line == "" },
		skipComment:   func(line string) bool { return strings.HasPrefix(line, "#") },
		logger:        slog.Default(),
	}
}

// WithLogger configures the logger used for parse diagnostics.
func (p *Parser) WithLogger(l *slog.Logger) *Parser {
	p.logger = l
	return p
}

// WithSkipEmptyLine configures the empty line skip function.
func (p *Parser) WithSkipEmptyLine(fn func(string) bool) *Parser {
	p.skipEmptyLine = fn
	return p
}

// WithSkipComment configures the comment skip function.
func (p *Parser) WithSkipComment(fn func(string) bool) *Parser {
	p.skipComment = fn
	return p
}

// ParseFile parses the parameter file at path.
func (p *Parser) ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return p.ParseDocument(f)
}

// ParseDocument parses a parameter file from an io.Reader.
//
// Each stripped line is one of: blank or comment (skipped), "subsection NAME"
// (opens NAME in the current section, merging into an already-present
// subsection of the same name), "end" (closes the current subsection; an end
// with nothing open is tolerated), or "set KEY = VALUE[, TYPE]" (stores a
// leaf, replacing any earlier entry at that key). Anything else is recorded
// as a Diagnostic and skipped; parsing never aborts on malformed input.
func (p *Parser) ParseDocument(r io.Reader) (*Document, error) {
	scanner := NewScanner(r)
	doc := &Document{Root: NewSection()}
	cur := doc.Root
	var stack []*Section

	for {
		lineNum, line, ok := scanner.NextLine()
		if !ok {
			break
		}

		line = strings.TrimSpace(line)
		if p.skipEmptyLine(line) || p.skipComment(line) {
			continue
		}

		if m := subsectionRe.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(m[1])
			sub, ok := cur.Sub(name)
			if !ok {
				sub = NewSection()
				cur.Set(name, sub)
			}
			stack = append(stack, cur)
			cur = sub
			continue
		}

		if line == "end" {
			// An extra end at the root is tolerated.
			if n := len(stack); n > 0 {
				cur = stack[n-1]
				stack = stack[:n-1]
			}
			continue
		}

		if m := setRe.FindStringSubmatch(line); m != nil {
			key := strings.TrimSpace(m[1])
			cur.Set(key, Parameter{Value: strings.TrimSpace(m[2]), Type: m[3]})
			continue
		}

		doc.Diags = append(doc.Diags, Diagnostic{Line: lineNum, Text: line})
		p.logger.Warn("unable to parse line", "line", lineNum, "text", line)
	}

	return doc, scanner.Err()
}
