package models

// RateRequest is the payload for POST /api/v1/rate.
type RateRequest struct {
	// URL is the target website to rate. Required.
	URL string `json:"url" binding:"required,url"`

	// Timeout is the maximum duration in seconds for the entire rating
	// operation (submission + settle + extraction).
	// Default: 45. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// OutputFormat controls the report format.
	// Allowed: "text" (default), "markdown".
	OutputFormat string `json:"output_format,omitempty" binding:"omitempty,oneof=text markdown"`

	// FetchMode controls the acquisition strategy.
	// "auto" (default): form POST, then query GET, then browser.
	// "form": form POST only.
	// "query": query-parameter GET only.
	// "browser": headless browser only.
	FetchMode string `json:"fetch_mode,omitempty" binding:"omitempty,oneof=auto form query browser"`

	// Stealth enables anti-bot-detection evasions on the browser path.
	// Default: false.
	Stealth bool `json:"stealth,omitempty"`

	// MaxAge, in milliseconds, allows serving a cached report no older
	// than this. 0 disables cache lookup.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *RateRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 45
	}
	if r.OutputFormat == "" {
		r.OutputFormat = "text"
	}
	if r.FetchMode == "" {
		r.FetchMode = "auto"
	}
}
