package api

import (
	"sort"

	"hardsub/internal/queue"
	"hardsub/internal/workflow"
)

// FromQueueItem converts a queue record to its API representation.
func FromQueueItem(item *queue.Item) QueueItem {
	if item == nil {
		return QueueItem{}
	}

	dto := QueueItem{
		ID:         item.ID,
		Title:      item.Title,
		SourcePath: item.SourcePath,
		OutputPath: item.OutputPath,
		Status:     string(item.Status),
		Language:   item.Language,
		Model:      item.Model,
		FontSize:   item.FontSize,
		FontColor:  item.FontColor,
		Position:   item.Position,
		Progress: QueueProgress{
			Stage:   item.ProgressStage,
			Percent: item.ProgressPercent,
			Message: item.ProgressMessage,
		},
		ErrorMessage: item.ErrorMessage,
		AudioFile:    item.AudioFile,
		SubtitleFile: item.SubtitleFile,
		SegmentsFile: item.SegmentsFile,
	}
	if !item.CreatedAt.IsZero() {
		dto.CreatedAt = item.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !item.UpdatedAt.IsZero() {
		dto.UpdatedAt = item.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromQueueItems converts a slice of queue records into API DTOs.
func FromQueueItems(items []*queue.Item) []QueueItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]QueueItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, FromQueueItem(item))
	}
	return out
}

// FromStatusSummary converts workflow diagnostics to the API shape.
func FromStatusSummary(summary workflow.StatusSummary) WorkflowStatus {
	status := WorkflowStatus{
		Running:   summary.Running,
		LastError: summary.LastError,
	}
	if len(summary.QueueStats) > 0 {
		status.QueueStats = make(map[string]int, len(summary.QueueStats))
		for k, v := range summary.QueueStats {
			status.QueueStats[k] = v
		}
	}
	if summary.LastJob != nil {
		item := FromQueueItem(summary.LastJob)
		status.LastItem = &item
	}
	status.StageHealth = stageHealthSlice(summary)
	return status
}

// stageHealthSlice orders stage health deterministically by name.
func stageHealthSlice(summary workflow.StatusSummary) []StageHealth {
	if len(summary.StageHealth) == 0 {
		return nil
	}
	names := make([]string, 0, len(summary.StageHealth))
	for name := range summary.StageHealth {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]StageHealth, 0, len(names))
	for _, name := range names {
		health := summary.StageHealth[name]
		out = append(out, StageHealth{Name: name, Ready: health.Ready, Detail: health.Detail})
	}
	return out
}
