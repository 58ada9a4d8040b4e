package models

// RateResponse is the response for POST /api/v1/rate.
type RateResponse struct {
	// Success indicates whether a report was produced.
	Success bool `json:"success"`

	// URL is the target website the report describes.
	URL string `json:"url"`

	// Content is the analysis report in the requested format.
	Content string `json:"content"`

	// Scores holds the per-category scores backing the report. Sparse
	// when only some categories were extracted.
	Scores ScoreSet `json:"scores,omitempty"`

	// Synthesized is true when the report was generated from partial
	// signals or defaults rather than extracted from the service.
	Synthesized bool `json:"synthesized"`

	// Source names the acquisition strategy that produced the report
	// ("form", "query", "browser"), or "synthesizer" when no strategy
	// yielded usable content.
	Source string `json:"source,omitempty"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// AcquisitionMs is the time spent submitting the URL and waiting
	// for the service's response.
	AcquisitionMs int64 `json:"acquisition_ms"`

	// ExtractionMs is the time spent extracting text and scores.
	ExtractionMs int64 `json:"extraction_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool. Zero-valued when
// the browser path is disabled.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}
