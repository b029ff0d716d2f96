package area

import (
	"context"
	"testing"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		name     string
		line     string
		wantUser string
		wantArea float64
		wantOK   bool
	}{
		{name: "plain", line: "bob123: 42 square miles", wantUser: "bob123", wantArea: 42, wantOK: true},
		{name: "thousands separators", line: "alice: 1,234,567 square miles", wantUser: "alice", wantArea: 1234567, wantOK: true},
		{name: "mi2 suffix", line: "carol: 99 mi²", wantUser: "carol", wantArea: 99, wantOK: true},
		{name: "leading whitespace", line: "  dave: 7 square miles", wantUser: "dave", wantArea: 7, wantOK: true},
		{name: "missing colon", line: "eve 12 square miles", wantOK: false},
		{name: "non-numeric", line: "frank: lots square miles", wantOK: false},
		{name: "missing unit", line: "grace: 55", wantOK: false},
		{name: "empty", line: "", wantOK: false},
		{name: "python warning", line: "Skipping user mallory - no region", wantOK: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLine(tc.line)
			if ok != tc.wantOK {
				t.Fatalf("ParseLine(%q) ok = %v, want %v", tc.line, ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if got.Username != tc.wantUser || got.Area != tc.wantArea {
				t.Fatalf("ParseLine(%q) = %+v, want {%s %v}", tc.line, got, tc.wantUser, tc.wantArea)
			}
		})
	}
}

func TestParseSkipsMalformedLines(t *testing.T) {
	out := []byte("bob: 10 square miles\ngarbage line\nalice: 20 square miles\n\nError processing user x: oops\n")
	areas := Parse(out)
	if len(areas) != 2 {
		t.Fatalf("Parse returned %d rows, want 2: %+v", len(areas), areas)
	}
	if areas[0].Username != "bob" || areas[1].Username != "alice" {
		t.Fatalf("unexpected usernames: %+v", areas)
	}
}

func TestRankEmptyCommand(t *testing.T) {
	r := NewRanker("", 0)
	if _, err := r.Rank(context.Background()); err == nil {
		t.Fatal("expected error for empty command")
	}
}
