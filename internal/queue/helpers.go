package queue

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"time"
)

const itemColumns = "id, source_path, output_path, title, status, language, model, font_size, font_color, position, scratch_dir, audio_file, subtitle_file, segments_file, error_message, created_at, updated_at, progress_stage, progress_percent, progress_message, last_heartbeat"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id               int64
		sourcePath       string
		outputPath       string
		title            sql.NullString
		statusStr        string
		language         sql.NullString
		model            sql.NullString
		fontSize         sql.NullInt64
		fontColor        sql.NullString
		position         sql.NullString
		scratchDir       sql.NullString
		audioFile        sql.NullString
		subtitleFile     sql.NullString
		segmentsFile     sql.NullString
		errorMessage     sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
		progressStage    sql.NullString
		progressPercent  sql.NullFloat64
		progressMessage  sql.NullString
		lastHeartbeatRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sourcePath,
		&outputPath,
		&title,
		&statusStr,
		&language,
		&model,
		&fontSize,
		&fontColor,
		&position,
		&scratchDir,
		&audioFile,
		&subtitleFile,
		&segmentsFile,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&progressStage,
		&progressPercent,
		&progressMessage,
		&lastHeartbeatRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:              id,
		SourcePath:      sourcePath,
		OutputPath:      outputPath,
		Title:           title.String,
		Status:          Status(statusStr),
		Language:        language.String,
		Model:           model.String,
		FontSize:        int(fontSize.Int64),
		FontColor:       fontColor.String,
		Position:        position.String,
		ScratchDir:      scratchDir.String,
		AudioFile:       audioFile.String,
		SubtitleFile:    subtitleFile.String,
		SegmentsFile:    segmentsFile.String,
		ErrorMessage:    errorMessage.String,
		ProgressStage:   progressStage.String,
		ProgressPercent: progressPercent.Float64,
		ProgressMessage: progressMessage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	if lastHeartbeatRaw.Valid {
		if heartbeat, err := parseTimeString(lastHeartbeatRaw.String); err == nil {
			item.LastHeartbeat = &heartbeat
		}
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

func inferTitleFromPath(path string) string {
	base := filepath.Base(strings.TrimSpace(path))
	ext := filepath.Ext(base)
	title := strings.TrimSuffix(base, ext)
	if title == "" || title == "." || title == string(filepath.Separator) {
		return "Untitled"
	}
	return title
}
