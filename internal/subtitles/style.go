package subtitles

import (
	"fmt"
	"strings"
)

// Position selects where burned-in subtitles are rendered.
type Position string

const (
	PositionBottom Position = "bottom"
	PositionTop    Position = "top"
)

// ASS numeric alignment codes understood by the subtitles filter
// (numpad layout: 2 = bottom center, 8 = top center).
const (
	alignmentBottomCenter = "2"
	alignmentTopCenter    = "8"
)

// Style carries the user-facing styling knobs for burned-in subtitles.
// FontColor is a 6 hex-digit RRGGBB string without prefix.
type Style struct {
	FontSize  int
	FontColor string
	Position  Position
}

// ParsePosition normalizes a position string. Only "top" and "bottom" are
// recognized.
func ParsePosition(value string) (Position, error) {
	switch Position(strings.ToLower(strings.TrimSpace(value))) {
	case PositionBottom:
		return PositionBottom, nil
	case PositionTop:
		return PositionTop, nil
	default:
		return "", fmt.Errorf("invalid subtitle position %q (expected top or bottom)", value)
	}
}

// Validate checks the style fields are renderable.
func (s Style) Validate() error {
	if s.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %d", s.FontSize)
	}
	if err := validateColor(s.FontColor); err != nil {
		return err
	}
	if _, err := ParsePosition(string(s.Position)); err != nil {
		return err
	}
	return nil
}

// ForceStyle renders the style as an ASS force_style descriptor for the
// subtitles filter. The filter's PrimaryColour is little-endian (&H00BBGGRR&),
// so the RRGGBB byte pairs are emitted in reverse order. An unrecognized
// position falls back to bottom-center; Validate rejects it before a job
// starts, so the fallback only matters for callers that skip validation.
func (s Style) ForceStyle() string {
	color := strings.ToUpper(strings.TrimSpace(s.FontColor))
	bgr := color
	if len(color) == 6 {
		bgr = color[4:6] + color[2:4] + color[0:2]
	}
	alignment := alignmentBottomCenter
	if s.Position == PositionTop {
		alignment = alignmentTopCenter
	}
	return fmt.Sprintf("Fontsize=%d,PrimaryColour=&H00%s&,Alignment=%s", s.FontSize, bgr, alignment)
}

func validateColor(value string) error {
	color := strings.TrimSpace(value)
	if len(color) != 6 {
		return fmt.Errorf("font color must be 6 hex digits (RRGGBB), got %q", value)
	}
	for _, r := range color {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return fmt.Errorf("font color must be 6 hex digits (RRGGBB), got %q", value)
		}
	}
	return nil
}
