package subtitles

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{3661.25, "01:01:01,250"},
		{59.9999, "00:00:59,999"},
		{-4, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.seconds); got != tc.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatTimestampTruncatesMilliseconds(t *testing.T) {
	// 2.9996 must not round up into the seconds field.
	if got := FormatTimestamp(2.9996); got != "00:00:02,999" {
		t.Fatalf("FormatTimestamp(2.9996) = %q, want 00:00:02,999", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		value   string
		want    float64
		wantErr bool
	}{
		{"00:00:01,500", 1.5, false},
		{"01:01:01,250", 3661.25, false},
		{"00:00:01.500", 1.5, false},
		{"", 0, true},
		{"nonsense", 0, true},
		{"01:02,000", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.value)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimestamp(%q) expected error, got %v", tc.value, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimestamp(%q) unexpected error: %v", tc.value, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestWriteSRTSkipsBlankSegments(t *testing.T) {
	var sb strings.Builder
	segments := []Segment{
		{Start: 0, End: 1.5, Text: "hello"},
		{Start: 1.5, End: 2, Text: "   "},
		{Start: 2, End: 3.25, Text: "world"},
	}
	cues, err := WriteSRT(&sb, segments)
	if err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	if cues != 2 {
		t.Fatalf("expected 2 cues, got %d", cues)
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nhello\n\n" +
		"2\n00:00:02,000 --> 00:00:03,250\nworld\n\n"
	if sb.String() != want {
		t.Fatalf("unexpected srt output:\n%s", sb.String())
	}
}

func TestWriteSRTEmptyInput(t *testing.T) {
	var sb strings.Builder
	cues, err := WriteSRT(&sb, nil)
	if err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	if cues != 0 {
		t.Fatalf("expected 0 cues, got %d", cues)
	}
	if sb.Len() != 0 {
		t.Fatalf("expected empty output, got %q", sb.String())
	}
}

func TestWriteSRTFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	segments := []Segment{
		{Start: 1, End: 2.5, Text: "first"},
		{Start: 3, End: 4, Text: "second"},
	}
	cues, err := WriteSRTFile(path, segments)
	if err != nil {
		t.Fatalf("WriteSRTFile: %v", err)
	}
	if cues != 2 {
		t.Fatalf("expected 2 cues, got %d", cues)
	}

	count, err := CountCues(path)
	if err != nil {
		t.Fatalf("CountCues: %v", err)
	}
	if count != 2 {
		t.Fatalf("CountCues = %d, want 2", count)
	}

	first, last, err := Bounds(path)
	if err != nil {
		t.Fatalf("Bounds: %v", err)
	}
	if first != 1 || last != 4 {
		t.Fatalf("Bounds = (%v, %v), want (1, 4)", first, last)
	}

	if issues := ValidateSRTContent(path); len(issues) != 0 {
		t.Fatalf("ValidateSRTContent reported issues: %v", issues)
	}
}

func TestValidateSRTContentFlagsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.srt")
	if _, err := WriteSRTFile(path, nil); err != nil {
		t.Fatalf("WriteSRTFile: %v", err)
	}
	issues := ValidateSRTContent(path)
	if len(issues) != 1 || issues[0] != "empty_subtitle_file" {
		t.Fatalf("expected empty_subtitle_file issue, got %v", issues)
	}
}

func TestSegmentsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.json")
	segments := []Segment{
		{Start: 0.5, End: 2, Text: "one"},
		{Start: 2, End: 4.75, Text: "two"},
	}
	if err := SaveSegments(path, segments); err != nil {
		t.Fatalf("SaveSegments: %v", err)
	}
	loaded, err := LoadSegments(path)
	if err != nil {
		t.Fatalf("LoadSegments: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(loaded))
	}
	if loaded[1].End != 4.75 || loaded[1].Text != "two" {
		t.Fatalf("unexpected segment: %+v", loaded[1])
	}
}

func TestLoadSegmentsEmptyPath(t *testing.T) {
	if _, err := LoadSegments(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
