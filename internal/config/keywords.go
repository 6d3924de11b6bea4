package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/harrison/loopscope/internal/pattern"
)

// LoadKeywordsMarkdown parses a markdown keyword document into a
// keyword table. The document uses level 2 headings named after a
// category (work, communication, browser, distraction, productive)
// followed by a bullet list of keywords:
//
//	## work
//	- code
//	- terminal
//
// Unknown headings are an error so typos do not silently drop a whole
// category.
func LoadKeywordsMarkdown(path string) (pattern.KeywordTable, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}
	return ParseKeywordsMarkdown(content)
}

// ParseKeywordsMarkdown parses keyword markdown content. See
// LoadKeywordsMarkdown for the expected format.
func ParseKeywordsMarkdown(content []byte) (pattern.KeywordTable, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(content))

	table := make(pattern.KeywordTable)
	var currentCategory string

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if heading, ok := n.(*ast.Heading); ok && heading.Level == 2 {
			category := strings.ToLower(strings.TrimSpace(nodeText(heading, content)))
			if !validCategory(category) {
				return ast.WalkStop, fmt.Errorf("unknown keyword category heading %q", category)
			}
			currentCategory = category
			return ast.WalkSkipChildren, nil
		}

		if item, ok := n.(*ast.ListItem); ok {
			if currentCategory == "" {
				return ast.WalkStop, fmt.Errorf("keyword list item before any category heading")
			}
			keyword := strings.ToLower(strings.TrimSpace(nodeText(item, content)))
			if keyword != "" {
				table[keyword] = currentCategory
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("keywords document contains no keywords")
	}
	return table, nil
}

// nodeText extracts plain text from an AST node and its descendants.
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	collectText(n, source, &buf)
	return buf.String()
}

func collectText(n ast.Node, source []byte, buf *bytes.Buffer) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
			continue
		}
		collectText(c, source, buf)
	}
}
