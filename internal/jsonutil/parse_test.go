package jsonutil

import (
	"strings"
	"testing"
)

type sampleDoc struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

func TestStripMarkdownFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with trailing prose", "```json\n{\"a\":1}\n```\nhope this helps", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripMarkdownFences(tc.in); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStripControlChars(t *testing.T) {
	in := "{\"title\":\"a\x00b\x1fc\x7fde\"}"
	want := `{"title":"abcde"}`
	if got := StripControlChars(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStripControlChars_Idempotent(t *testing.T) {
	in := "line1\nline2\ttab\x00junk"
	once := StripControlChars(in)
	twice := StripControlChars(once)
	if once != twice {
		t.Errorf("stripping is not idempotent: %q vs %q", once, twice)
	}
}

func TestStripControlChars_PreservesUnicode(t *testing.T) {
	in := `{"title":"Nếu mèo biết nói thì sao?"}`
	if got := StripControlChars(in); got != in {
		t.Errorf("Vietnamese text mangled: %q", got)
	}
}

func TestExtractObject(t *testing.T) {
	got, err := ExtractObject(`Sure! Here is the JSON you asked for: {"a":{"b":2}} Let me know.`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"a":{"b":2}}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractObject_NoObject(t *testing.T) {
	if _, err := ExtractObject("no json here"); err == nil {
		t.Error("expected error for text without an object")
	}
	if _, err := ExtractObject("} backwards {"); err == nil {
		t.Error("expected error when closing brace precedes opening brace")
	}
}

func TestParseObject(t *testing.T) {
	raw := "```json\n{\"title\":\"What if\",\"items\":[\"a\",\"b\"]}\n```"
	doc, err := ParseObject[sampleDoc](raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "What if" || len(doc.Items) != 2 {
		t.Errorf("unexpected result: %+v", doc)
	}
}

func TestParseObject_ControlCharsInsideStrings(t *testing.T) {
	raw := "{\"title\":\"bad\x01value\",\"items\":[]}"
	doc, err := ParseObject[sampleDoc](raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "badvalue" {
		t.Errorf("expected control chars removed, got %q", doc.Title)
	}
}

func TestParseObject_InvalidJSON(t *testing.T) {
	_, err := ParseObject[sampleDoc](`{"title": unquoted}`)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("unexpected error: %v", err)
	}
}
