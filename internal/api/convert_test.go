package api

import (
	"testing"
	"time"

	"hardsub/internal/queue"
	"hardsub/internal/stage"
	"hardsub/internal/workflow"
)

func TestFromQueueItem(t *testing.T) {
	created := time.Date(2026, time.March, 4, 10, 30, 0, 0, time.UTC)
	item := &queue.Item{
		ID:              7,
		Title:           "Lecture",
		SourcePath:      "/videos/lecture.mp4",
		OutputPath:      "/out/lecture_subtitled.mp4",
		Status:          queue.StatusTranscribing,
		Language:        "en",
		Model:           "small",
		FontSize:        28,
		FontColor:       "FFFFFF",
		Position:        "bottom",
		ProgressStage:   "Transcribing",
		ProgressPercent: 30,
		ProgressMessage: "Transcribing (this may take a while)",
		CreatedAt:       created,
		UpdatedAt:       created.Add(time.Minute),
	}

	dto := FromQueueItem(item)
	if dto.ID != 7 || dto.Status != "transcribing" {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if dto.Progress.Percent != 30 || dto.Progress.Stage != "Transcribing" {
		t.Fatalf("unexpected progress: %+v", dto.Progress)
	}
	if dto.CreatedAt != "2026-03-04T10:30:00.000Z" {
		t.Fatalf("unexpected createdAt: %s", dto.CreatedAt)
	}
}

func TestFromQueueItemNil(t *testing.T) {
	dto := FromQueueItem(nil)
	if dto.ID != 0 || dto.Status != "" {
		t.Fatalf("expected zero dto, got %+v", dto)
	}
}

func TestFromStatusSummaryOrdersStageHealth(t *testing.T) {
	summary := workflow.StatusSummary{
		Running: true,
		StageHealth: map[string]stage.Health{
			"transcription": stage.Healthy("transcription"),
			"burnin":        stage.Unhealthy("burnin", "ffmpeg missing"),
			"extraction":    stage.Healthy("extraction"),
		},
		QueueStats: map[string]int{"pending": 2},
	}

	status := FromStatusSummary(summary)
	if !status.Running {
		t.Fatal("expected running status")
	}
	if status.QueueStats["pending"] != 2 {
		t.Fatalf("unexpected queue stats: %+v", status.QueueStats)
	}
	if len(status.StageHealth) != 3 {
		t.Fatalf("expected 3 health entries, got %d", len(status.StageHealth))
	}
	if status.StageHealth[0].Name != "burnin" || status.StageHealth[2].Name != "transcription" {
		t.Fatalf("expected sorted health entries, got %+v", status.StageHealth)
	}
	if status.StageHealth[0].Ready {
		t.Fatal("expected burnin to be unhealthy")
	}
}
