package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hardsub/internal/subtitles"
)

// JobOptions carries the per-job inputs collected from the caller.
type JobOptions struct {
	Title    string
	Language string
	Model    string
	Style    subtitles.Style
}

// NewJob inserts a new pending subtitle job.
func (s *Store) NewJob(ctx context.Context, sourcePath, outputPath string, opts JobOptions) (*Item, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	title := opts.Title
	if title == "" {
		title = inferTitleFromPath(sourcePath)
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO jobs (
            source_path, output_path, title, status, language, model,
            font_size, font_color, position, created_at, updated_at,
            progress_stage, progress_percent, progress_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sourcePath,
		outputPath,
		title,
		StatusPending,
		nullableString(opts.Language),
		nullableString(opts.Model),
		opts.Style.FontSize,
		opts.Style.FontColor,
		string(opts.Style.Position),
		timestamp,
		timestamp,
		nil,
		0.0,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a job by identifier. Returns nil when no job exists.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM jobs WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing job.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE jobs
         SET source_path = ?, output_path = ?, title = ?, status = ?, language = ?,
             model = ?, font_size = ?, font_color = ?, position = ?, scratch_dir = ?,
             audio_file = ?, subtitle_file = ?, segments_file = ?, error_message = ?,
             updated_at = ?, progress_stage = ?, progress_percent = ?, progress_message = ?,
             last_heartbeat = ?
         WHERE id = ?`,
		item.SourcePath,
		item.OutputPath,
		nullableString(item.Title),
		string(item.Status),
		nullableString(item.Language),
		nullableString(item.Model),
		item.FontSize,
		item.FontColor,
		item.Position,
		nullableString(item.ScratchDir),
		nullableString(item.AudioFile),
		nullableString(item.SubtitleFile),
		nullableString(item.SegmentsFile),
		nullableString(item.ErrorMessage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		nullableString(item.ProgressStage),
		item.ProgressPercent,
		nullableString(item.ProgressMessage),
		nullableTime(item.LastHeartbeat),
		item.ID,
	); err != nil {
		return fmt.Errorf("update job %d: %w", item.ID, err)
	}
	return nil
}

// UpdateProgress persists only the progress fields of a job.
func (s *Store) UpdateProgress(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE jobs
         SET updated_at = ?, progress_stage = ?, progress_percent = ?, progress_message = ?
         WHERE id = ?`,
		item.UpdatedAt.Format(time.RFC3339Nano),
		nullableString(item.ProgressStage),
		item.ProgressPercent,
		nullableString(item.ProgressMessage),
		item.ID,
	); err != nil {
		return fmt.Errorf("update job progress %d: %w", item.ID, err)
	}
	return nil
}

// Heartbeat records a liveness timestamp for an in-flight job.
func (s *Store) Heartbeat(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	return s.execWithoutResultRetry(
		ctx,
		`UPDATE jobs SET last_heartbeat = ? WHERE id = ?`,
		now.Format(time.RFC3339Nano),
		id,
	)
}

// NextForStatuses returns the oldest job whose status matches one of the
// provided statuses, or nil when none are waiting.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Item, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(statuses))
	for _, status := range statuses {
		args = append(args, string(status))
	}
	query := `SELECT ` + itemColumns + ` FROM jobs WHERE status IN (` +
		makePlaceholders(len(statuses)) + `) ORDER BY id LIMIT 1`
	row := s.db.QueryRowContext(ctx, query, args...)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next job: %w", err)
	}
	return item, nil
}

// List returns jobs filtered by status; with no statuses it returns all jobs.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM jobs`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, string(status))
		}
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return items, nil
}

// Stats returns job counts keyed by status.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Clear removes all jobs and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM jobs`)
	if err != nil {
		return 0, fmt.Errorf("clear jobs: %w", err)
	}
	return res.RowsAffected()
}

// ClearCompleted removes completed jobs and returns the number removed.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM jobs WHERE status = ?`, string(StatusCompleted))
	if err != nil {
		return 0, fmt.Errorf("clear completed jobs: %w", err)
	}
	return res.RowsAffected()
}

// Retry resets a failed job to pending so the daemon picks it up again.
func (s *Store) Retry(ctx context.Context, id int64) (*Item, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("job %d not found", id)
	}
	if item.Status != StatusFailed {
		return nil, fmt.Errorf("job %d is %s, only failed jobs can be retried", id, item.Status)
	}
	item.Status = StatusPending
	item.ErrorMessage = ""
	item.SetProgress("", "", 0)
	item.LastHeartbeat = nil
	if err := s.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// FailStale marks in-flight jobs whose heartbeat is older than timeout as
// failed. Used at daemon startup to reclaim jobs orphaned by a crash.
func (s *Store) FailStale(ctx context.Context, timeout time.Duration, reason string) (int64, error) {
	cutoff := time.Now().UTC().Add(-timeout).Format(time.RFC3339Nano)
	args := make([]any, 0, len(processingStatuses)+2)
	args = append(args, reason, cutoff)
	statuses := make([]Status, 0, len(processingStatuses))
	for status := range processingStatuses {
		statuses = append(statuses, status)
	}
	for _, status := range statuses {
		args = append(args, string(status))
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs SET status = 'failed', error_message = ?, last_heartbeat = NULL
         WHERE last_heartbeat IS NOT NULL AND last_heartbeat < ?
           AND status IN (`+makePlaceholders(len(statuses))+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("fail stale jobs: %w", err)
	}
	return res.RowsAffected()
}
