package models

// BatchRequest is the payload for POST /api/v1/batch/rate.
type BatchRequest struct {
	// URLs is the list of target websites to rate. Blank entries are
	// skipped without producing a result.
	URLs []string `json:"urls" binding:"required,min=1,max=100"`

	// Options contains shared settings applied to all URLs.
	Options BatchOptions `json:"options"`
}

// BatchOptions are the shared rating settings applied to every URL in a batch.
type BatchOptions struct {
	OutputFormat string `json:"output_format,omitempty" binding:"omitempty,oneof=text markdown"`
	FetchMode    string `json:"fetch_mode,omitempty" binding:"omitempty,oneof=auto form query browser"`
	Timeout      int    `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`
	Stealth      bool   `json:"stealth,omitempty"`
}

// BatchResponse is the immediate response for POST /api/v1/batch/rate.
type BatchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// BatchStatusResponse is the response for GET /api/v1/batch/:id.
type BatchStatusResponse struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	Completed int           `json:"completed"`
	Total     int           `json:"total"`
	Results   []*RateResult `json:"results,omitempty"`
}

// BatchJob tracks an in-progress batch rating operation.
type BatchJob struct {
	ID        string
	Status    string // "processing", "completed", "failed", "partial"
	Total     int
	Completed int
	Results   []*RateResult
	CreatedAt int64 // unix timestamp
}
