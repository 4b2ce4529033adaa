// Package parser extracts YAML frontmatter and the Markdown body from
// article source files.
package parser

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter holds the author-supplied metadata of an article source file.
type FrontMatter struct {
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	Tags     []string `yaml:"tags"`
	Draft    bool     `yaml:"draft"`
	Template string   `yaml:"template"`
}

// Result holds the output of parsing an article file.
type Result struct {
	FrontMatter FrontMatter
	Body        string
}

// Parse splits raw Markdown bytes into frontmatter and body. A file without
// frontmatter is valid: the whole content is body, the draft flag defaults
// to false, and the title falls back to the first H1 heading. Frontmatter
// that is present but not valid YAML is an error, so a malformed article
// aborts the ingestion batch instead of being silently published.
func Parse(data []byte) (*Result, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	if fm.Title == "" {
		fm.Title = firstHeading(body)
	}

	return &Result{FrontMatter: fm, Body: body}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading ---
// delimiters) from the Markdown body. If no frontmatter is found the entire
// content is body.
func splitFrontmatter(data []byte) (FrontMatter, string, error) {
	const delim = "---"
	var fm FrontMatter

	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return fm, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return fm, "", fmt.Errorf("parser: frontmatter opened but never closed")
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return fm, "", fmt.Errorf("parser: invalid frontmatter: %w", err)
	}

	return fm, body, nil
}

// firstHeading returns the first H1 heading of the body, or empty string.
func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
