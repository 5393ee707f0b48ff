// ABOUTME: Tests for Color wrapping and config-driven palette overrides
// ABOUTME: Covers ANSI wrapping, color spec parsing, and unknown role rejection

package theme

import (
	"strings"
	"testing"
)

func TestColor_Apply(t *testing.T) {
	t.Parallel()
	if got, want := NewColor("\x1b[32m").Apply("hi"), "\x1b[32mhi\x1b[0m"; got != want {
		t.Errorf("Apply() = %q; want %q", got, want)
	}
	if got := (Color{}).Apply("hi"); got != "hi" {
		t.Errorf("empty Apply() = %q; want %q", got, "hi")
	}
	if got := NewColor("\x1b[31m").Bold().Code(); !strings.HasPrefix(got, "\x1b[1m") {
		t.Errorf("Bold().Code() = %q; want bold prefix", got)
	}
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec    string
		want    string
		wantErr bool
	}{
		{spec: "red", want: "\x1b[31m"},
		{spec: "bold 108", want: "\x1b[1m\x1b[38;5;108m"},
		{spec: "bg:236", want: "\x1b[48;5;236m"},
		{spec: "\x1b[7m", want: "\x1b[7m"},
		{spec: "", want: ""},
		{spec: "256", wantErr: true},
		{spec: "bg:red", wantErr: true},
		{spec: "sparkly", wantErr: true},
	}

	for _, tt := range tests {
		c, err := ParseColor(tt.spec)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v, wantErr %v", tt.spec, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && c.Code() != tt.want {
			t.Errorf("ParseColor(%q) = %q; want %q", tt.spec, c.Code(), tt.want)
		}
	}
}

func TestOverride(t *testing.T) {
	t.Parallel()

	base := DefaultPalette()
	p, err := Override(base, map[string]string{"current_match": "green", "cursor": "bold 161"})
	if err != nil {
		t.Fatalf("Override() error: %v", err)
	}
	if p.CurrentMatch.Code() != "\x1b[32m" {
		t.Errorf("CurrentMatch = %q; want green", p.CurrentMatch.Code())
	}
	if p.Cursor.Code() != "\x1b[1m\x1b[38;5;161m" {
		t.Errorf("Cursor = %q", p.Cursor.Code())
	}
	if p.Prompt != base.Prompt {
		t.Error("untouched role should keep its base color")
	}

	if _, err := Override(base, map[string]string{"footer": "red"}); err == nil {
		t.Error("Override() with unknown role should fail")
	}
}
