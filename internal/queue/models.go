package queue

import (
	"strings"
	"time"

	"hardsub/internal/subtitles"
)

// Status represents the lifecycle of a subtitle job.
type Status string

const (
	StatusPending      Status = "pending"
	StatusExtracting   Status = "extracting"
	StatusExtracted    Status = "extracted"
	StatusTranscribing Status = "transcribing"
	StatusTranscribed  Status = "transcribed"
	StatusSubtitling   Status = "subtitling"
	StatusSubtitled    Status = "subtitled"
	StatusBurning      Status = "burning"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

// DaemonStopReason is the error message set when jobs are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusExtracting,
	StatusExtracted,
	StatusTranscribing,
	StatusTranscribed,
	StatusSubtitling,
	StatusSubtitled,
	StatusBurning,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusExtracting:   {},
	StatusTranscribing: {},
	StatusSubtitling:   {},
	StatusBurning:      {},
}

// Item represents a subtitle job persisted in SQLite.
type Item struct {
	ID              int64
	SourcePath      string
	OutputPath      string
	Title           string
	Status          Status
	Language        string
	Model           string
	FontSize        int
	FontColor       string
	Position        string
	ScratchDir      string
	AudioFile       string
	SubtitleFile    string
	SegmentsFile    string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	LastHeartbeat   *time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (i Item) IsProcessing() bool {
	return IsProcessingStatus(i.Status)
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsTerminal reports whether the job has reached a final state.
func (i Item) IsTerminal() bool {
	return i.Status == StatusCompleted || i.Status == StatusFailed
}

// Style reconstructs the subtitle style parameters attached to the job.
func (i Item) Style() subtitles.Style {
	return subtitles.Style{
		FontSize:  i.FontSize,
		FontColor: i.FontColor,
		Position:  subtitles.Position(i.Position),
	}
}

// SetProgress updates all three progress fields atomically.
func (i *Item) SetProgress(stage, message string, percent float64) {
	i.ProgressStage = stage
	i.ProgressMessage = message
	i.ProgressPercent = percent
}

// SetFailed marks the job as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
	i.ProgressMessage = message
	i.LastHeartbeat = nil
	i.ProgressStage = "Failed"
}
