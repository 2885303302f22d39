package share

import (
	"strings"
	"testing"
)

func TestProjectURL_TrimsTrailingSlash(t *testing.T) {
	got := ProjectURL("https://whatif.example.com/", "abc-123")
	want := "https://whatif.example.com/project/abc-123"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLinks_AllPlatformsPresent(t *testing.T) {
	links := Links("https://whatif.example.com", "abc-123", "What if cats could talk?")
	for _, p := range Platforms {
		if links[p] == "" {
			t.Errorf("missing link for platform %s", p)
		}
	}
}

func TestLinks_Escaping(t *testing.T) {
	links := Links("https://whatif.example.com", "abc-123", "What if cats & dogs talked?")

	if links["copy"] != "https://whatif.example.com/project/abc-123" {
		t.Errorf("copy link should be the raw project URL, got %s", links["copy"])
	}
	if strings.Contains(links["twitter"], " ") || strings.Contains(links["twitter"], "&text=What if") {
		t.Errorf("twitter title not escaped: %s", links["twitter"])
	}
	if !strings.Contains(links["facebook"], "sharer.php?u=https%3A%2F%2F") {
		t.Errorf("facebook URL not escaped: %s", links["facebook"])
	}
	if !strings.Contains(links["reddit"], "title=What+if+cats+%26+dogs+talked%3F") {
		t.Errorf("reddit title not escaped: %s", links["reddit"])
	}
}

func TestValidPlatform(t *testing.T) {
	for _, p := range Platforms {
		if !ValidPlatform(p) {
			t.Errorf("%s should be valid", p)
		}
	}
	if ValidPlatform("myspace") {
		t.Error("unknown platform accepted")
	}
}
