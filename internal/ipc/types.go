package ipc

import (
	"hardsub/internal/api"
	"hardsub/internal/progress"
)

// StartRequest triggers daemon workflow startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops daemon workflow.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// QueueItem mirrors the API queue DTO for IPC callers.
type QueueItem = api.QueueItem

// StageHealth describes readiness of a workflow stage.
type StageHealth = api.StageHealth

// DependencyStatus describes availability of an external dependency.
type DependencyStatus = api.DependencyStatus

// StatusResponse represents combined daemon/workflow status information.
type StatusResponse struct {
	Running      bool               `json:"running"`
	QueueStats   map[string]int     `json:"queue_stats"`
	LastError    string             `json:"last_error"`
	LastItem     *QueueItem         `json:"last_item"`
	LockPath     string             `json:"lock_path"`
	QueueDBPath  string             `json:"queue_db_path"`
	StageHealth  []StageHealth      `json:"stage_health"`
	Dependencies []DependencyStatus `json:"dependencies"`
	PID          int                `json:"pid"`
}

// EnqueueRequest adds a video to the queue.
type EnqueueRequest struct {
	SourcePath string `json:"source_path"`
	OutputPath string `json:"output_path"`
	Title      string `json:"title"`
	Language   string `json:"language"`
	Model      string `json:"model"`
	FontSize   int    `json:"font_size"`
	FontColor  string `json:"font_color"`
	Position   string `json:"position"`
}

// EnqueueResponse returns the created queue entry.
type EnqueueResponse struct {
	Item QueueItem `json:"item"`
}

// QueueListRequest filters queue listing by status.
type QueueListRequest struct {
	Statuses []string `json:"statuses"`
}

// QueueListResponse contains queue entries.
type QueueListResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueDescribeRequest fetches a single queue item by id.
type QueueDescribeRequest struct {
	ID int64 `json:"id"`
}

// QueueDescribeResponse contains a single queue entry.
type QueueDescribeResponse struct {
	Item QueueItem `json:"item"`
}

// QueueClearRequest removes all items.
type QueueClearRequest struct{}

// QueueClearResponse reports number of removed entries.
type QueueClearResponse struct {
	Removed int64 `json:"removed"`
}

// QueueClearCompletedRequest removes completed items.
type QueueClearCompletedRequest struct{}

// QueueClearCompletedResponse reports number of removed entries.
type QueueClearCompletedResponse struct {
	Removed int64 `json:"removed"`
}

// QueueRetryRequest retries a failed item.
type QueueRetryRequest struct {
	ID int64 `json:"id"`
}

// QueueRetryResponse returns the re-queued entry.
type QueueRetryResponse struct {
	Item QueueItem `json:"item"`
}

// ProgressRequest fetches buffered progress events after a sequence number.
type ProgressRequest struct {
	Since      uint64 `json:"since"`
	Limit      int    `json:"limit"`
	Wait       bool   `json:"wait"`
	WaitMillis int    `json:"wait_millis"`
}

// ProgressResponse returns ordered progress events and the next cursor.
type ProgressResponse struct {
	Events []progress.Event `json:"events"`
	Next   uint64           `json:"next"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
