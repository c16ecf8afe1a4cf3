package logging

// Standardized attribute keys shared by all components.
const (
	FieldComponent = "component"
	FieldJobID     = "job_id"
	FieldStage     = "stage"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
)
