package subtitles

import "testing"

func TestParsePosition(t *testing.T) {
	cases := []struct {
		value   string
		want    Position
		wantErr bool
	}{
		{"bottom", PositionBottom, false},
		{"top", PositionTop, false},
		{"  Top ", PositionTop, false},
		{"middle", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParsePosition(tc.value)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePosition(%q) expected error", tc.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePosition(%q) unexpected error: %v", tc.value, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePosition(%q) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestStyleValidate(t *testing.T) {
	valid := Style{FontSize: 24, FontColor: "FFFFFF", Position: PositionBottom}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid style rejected: %v", err)
	}

	cases := []struct {
		name  string
		style Style
	}{
		{"zero font size", Style{FontSize: 0, FontColor: "FFFFFF", Position: PositionBottom}},
		{"short color", Style{FontSize: 24, FontColor: "FFF", Position: PositionBottom}},
		{"non-hex color", Style{FontSize: 24, FontColor: "GGGGGG", Position: PositionBottom}},
		{"bad position", Style{FontSize: 24, FontColor: "FFFFFF", Position: "center"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.style.Validate(); err == nil {
				t.Errorf("expected validation error for %+v", tc.style)
			}
		})
	}
}

func TestForceStyleReversesColorBytes(t *testing.T) {
	style := Style{FontSize: 28, FontColor: "FF00AA", Position: PositionBottom}
	got := style.ForceStyle()
	want := "Fontsize=28,PrimaryColour=&H00AA00FF&,Alignment=2"
	if got != want {
		t.Fatalf("ForceStyle() = %q, want %q", got, want)
	}
}

func TestForceStyleAlignment(t *testing.T) {
	top := Style{FontSize: 24, FontColor: "FFFFFF", Position: PositionTop}
	if got := top.ForceStyle(); got != "Fontsize=24,PrimaryColour=&H00FFFFFF&,Alignment=8" {
		t.Fatalf("top alignment: %q", got)
	}
	// Unknown positions render bottom-center; Validate catches them earlier.
	odd := Style{FontSize: 24, FontColor: "FFFFFF", Position: "sideways"}
	if got := odd.ForceStyle(); got != "Fontsize=24,PrimaryColour=&H00FFFFFF&,Alignment=2" {
		t.Fatalf("fallback alignment: %q", got)
	}
}

func TestForceStyleLowercaseColor(t *testing.T) {
	style := Style{FontSize: 20, FontColor: "ffcc00", Position: PositionBottom}
	if got := style.ForceStyle(); got != "Fontsize=20,PrimaryColour=&H0000CCFF&,Alignment=2" {
		t.Fatalf("ForceStyle() = %q", got)
	}
}
