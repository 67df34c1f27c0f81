package dtos

// SearchJobsResponse summarizes one pipeline run for a user.
type SearchJobsResponse struct {
	Processed int      `json:"processed"`
	AppliedTo []string `json:"applied_to"`
}

// EmailSyncResponse reports how many inbound emails produced a log entry.
type EmailSyncResponse struct {
	Ingested int `json:"ingested"`
}

// ErrorBody is the structured error envelope: a machine-readable kind plus
// a human message, never an internal stack trace.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
