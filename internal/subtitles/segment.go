package subtitles

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Segment is a timed span of recognized speech produced by a speech engine.
// Start and End are seconds from the beginning of the audio track.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type segmentPayload struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments reads segments from a JSON file in the engine output shape
// ({"segments": [...]}).
func LoadSegments(path string) ([]Segment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload segmentPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse segments json: %w", err)
	}
	return payload.Segments, nil
}

// SaveSegments writes segments to a JSON file in the same shape LoadSegments
// reads. Used to persist transcription results into the job scratch directory.
func SaveSegments(path string, segments []Segment) error {
	data, err := json.Marshal(segmentPayload{Segments: segments})
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
