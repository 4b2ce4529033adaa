package parser

import (
	"testing"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\ndate: 2021-06-01\ntags:\n  - go\n  - blog\ndraft: true\n---\n# Hello\nBody text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.FrontMatter.Title != "Hello" {
		t.Errorf("title = %q, want %q", r.FrontMatter.Title, "Hello")
	}
	if r.FrontMatter.Date != "2021-06-01" {
		t.Errorf("date = %q", r.FrontMatter.Date)
	}
	if len(r.FrontMatter.Tags) != 2 || r.FrontMatter.Tags[0] != "go" || r.FrontMatter.Tags[1] != "blog" {
		t.Errorf("tags = %v, want [go blog]", r.FrontMatter.Tags)
	}
	if !r.FrontMatter.Draft {
		t.Error("draft flag not parsed")
	}
	if r.Body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.FrontMatter.Draft {
		t.Error("draft should default to false")
	}
	if r.FrontMatter.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", r.FrontMatter.Title, "Just a heading")
	}
	if r.Body != string(input) {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_InvalidYAMLIsError(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	if _, err := Parse(input); err == nil {
		t.Fatal("expected error for invalid frontmatter YAML")
	}
}

func TestParse_UnclosedFrontmatterIsError(t *testing.T) {
	input := []byte("---\ntitle: Oops\nBody without closing delimiter\n")
	if _, err := Parse(input); err == nil {
		t.Fatal("expected error for unclosed frontmatter")
	}
}

func TestParse_TitleFallsBackToH1(t *testing.T) {
	input := []byte("---\ndraft: false\n---\nintro text\n# My Heading\nmore\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.FrontMatter.Title != "My Heading" {
		t.Errorf("title = %q, want %q", r.FrontMatter.Title, "My Heading")
	}
}

func TestParse_FrontmatterTitleWins(t *testing.T) {
	input := []byte("---\ntitle: FM Title\n---\n# H1 Title\ntext\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.FrontMatter.Title != "FM Title" {
		t.Errorf("title = %q, want %q", r.FrontMatter.Title, "FM Title")
	}
}
