// Package mdtest extracts test cases from Markdown documents.
//
// A case starts at a heading "Test: NAME" and is followed by exactly one
// input fence (```daedalus for a program, ```daedalus-expr for a single
// expression) and at least one assertion fence (```ast, ```errors or
// ```diagnostics).
package mdtest

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType is the language tag of an input fence.
type InputType string

const (
	InputProgram    InputType = "daedalus"
	InputExpression InputType = "daedalus-expr"
)

// AssertionType is the language tag of an assertion fence.
type AssertionType string

const (
	AssertAST         AssertionType = "ast"
	AssertErrors      AssertionType = "errors"
	AssertDiagnostics AssertionType = "diagnostics"
)

// Assertion is one expected-output fence.
type Assertion struct {
	Type    AssertionType
	Content string
	Line    int
}

// Case is a single test case.
type Case struct {
	Name       string
	Input      string
	InputType  InputType
	Line       int
	Assertions []Assertion
}

// Lines returns the input split into source lines.
func (c Case) Lines() []string {
	return strings.Split(c.Input, "\n")
}

// Load reads and extracts the cases of a Markdown file.
func Load(path string) ([]Case, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cases, err := Extract(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Extract walks a Markdown document and collects its test cases.
func Extract(source []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		cases   []Case
		current *Case
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		if err := validate(current); err != nil {
			return err
		}
		cases = append(cases, *current)
		current = nil
		return nil
	}

	err := gast.Walk(doc, func(node gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *gast.Heading:
			heading := headingText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return gast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return gast.WalkStop, err
			}
			current = &Case{
				Name: strings.TrimPrefix(heading, "Test: "),
				Line: lineOf(n, source),
			}

		case *gast.FencedCodeBlock:
			lang := string(n.Language(source))
			line := lineOf(n, source)

			if current == nil {
				if lang != "" {
					return gast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test case", line, lang)
				}
				return gast.WalkContinue, nil
			}

			content := strings.TrimRight(blockContent(n, source), "\n")
			switch {
			case isInput(lang):
				if current.InputType != "" {
					return gast.WalkStop, fmt.Errorf("line %d: multiple input fences in test %q", line, current.Name)
				}
				current.Input = content
				current.InputType = InputType(lang)
			case isAssertion(lang):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(lang),
					Content: content,
					Line:    line,
				})
			case lang != "":
				return gast.WalkStop, fmt.Errorf("line %d: unknown fence language %q in test %q", line, lang, current.Name)
			}
		}

		return gast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

// Normalize collapses all whitespace runs to single spaces so multi-line
// expectations compare equal to single-line renderings.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NonEmptyLines splits s into trimmed, non-blank lines.
func NonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func validate(c *Case) error {
	if c.InputType == "" {
		return fmt.Errorf("test %q has no input fence", c.Name)
	}
	if len(c.Assertions) == 0 {
		return fmt.Errorf("test %q has no assertion fences", c.Name)
	}
	return nil
}

func isInput(lang string) bool {
	return lang == string(InputProgram) || lang == string(InputExpression)
}

func isAssertion(lang string) bool {
	switch AssertionType(lang) {
	case AssertAST, AssertErrors, AssertDiagnostics:
		return true
	}
	return false
}

func headingText(node gast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gast.Walk(node, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if t, ok := n.(*gast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return gast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(block *gast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf returns the 1-based line of the node's first content line.
func lineOf(node gast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := min(node.Lines().At(0).Start, len(source))
	return bytes.Count(source[:start], []byte{'\n'}) + 1
}
