package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldReleaseKey identifies the release a log line refers to.
	FieldReleaseKey = "release_key"
	// FieldFlushID correlates every line emitted while processing one flushed batch.
	FieldFlushID = "flush_id"
	// FieldEventType is a short machine-readable label for the logged event.
	FieldEventType = "event_type"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
	// FieldSource names the lookup collaborator or inbound channel involved.
	FieldSource = "source"
)
