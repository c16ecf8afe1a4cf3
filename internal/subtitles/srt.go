package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// FormatTimestamp renders a non-negative seconds value as an SRT timestamp
// (HH:MM:SS,mmm). Fields are truncated, never rounded: a rounded alternative
// could carry into the seconds field and shift cues relative to the audio.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := math.Floor(seconds)
	hh := int(whole) / 3600
	mm := (int(whole) % 3600) / 60
	ss := int(whole) % 60
	ms := int((seconds - whole) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hh, mm, ss, ms)
}

// WriteSRT emits the segments as numbered SRT cue blocks. Segments whose
// trimmed text is empty are skipped and consume no cue index. An empty
// segment slice produces an empty artifact. Returns the number of cues
// written.
func WriteSRT(w io.Writer, segments []Segment) (int, error) {
	bw := bufio.NewWriter(w)
	index := 0
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		index++
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			index, FormatTimestamp(seg.Start), FormatTimestamp(seg.End), text); err != nil {
			return index, fmt.Errorf("write cue %d: %w", index, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return index, fmt.Errorf("flush srt: %w", err)
	}
	return index, nil
}

// WriteSRTFile writes the segments to path as a UTF-8 SRT file.
func WriteSRTFile(path string, segments []Segment) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create srt %s: %w", path, err)
	}
	cues, err := WriteSRT(file, segments)
	if err != nil {
		_ = file.Close()
		return cues, err
	}
	if err := file.Close(); err != nil {
		return cues, fmt.Errorf("close srt %s: %w", path, err)
	}
	return cues, nil
}

// CountCues returns the number of cue blocks in an SRT file.
func CountCues(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read srt: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return 0, nil
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count, nil
}

// Bounds returns the earliest cue start and latest cue end in an SRT file.
func Bounds(path string) (float64, float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read srt: %w", err)
	}
	first := math.Inf(1)
	var last float64
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			continue
		}
		if start, err := ParseTimestamp(strings.TrimSpace(parts[0])); err == nil {
			if start < first {
				first = start
			}
			found = true
		}
		if end, err := ParseTimestamp(strings.TrimSpace(parts[1])); err == nil {
			if end > last {
				last = end
			}
		}
	}
	if !found {
		return 0, last, nil
	}
	return first, last, nil
}

// ParseTimestamp converts an SRT timestamp back to seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// Normalize period to comma (SRT standard uses comma for milliseconds)
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// ValidateSRTContent checks a generated SRT file for format issues.
// Returns a list of issues found; empty slice means validation passed.
func ValidateSRTContent(path string) []string {
	var issues []string

	cues, err := CountCues(path)
	if err != nil {
		issues = append(issues, fmt.Sprintf("read_error: %v", err))
		return issues
	}
	if cues == 0 {
		issues = append(issues, "empty_subtitle_file")
		return issues
	}

	first, last, err := Bounds(path)
	if err != nil {
		issues = append(issues, fmt.Sprintf("timestamp_parse_error: %v", err))
	} else if first == 0 && last == 0 {
		issues = append(issues, "no_valid_timestamps")
	}

	return issues
}
