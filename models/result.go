package models

// Status is the terminal state of a single rating attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// RateResult is the one record produced per non-blank input URL. It is
// built incrementally while the URL is processed and never mutated after
// being appended to a batch's output.
//
// Invariants: Status == "error" implies Content == "" and Error != "";
// Status == "success" implies Content != "".
type RateResult struct {
	URL     string `json:"url"`
	Status  Status `json:"status"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// ErrorResult builds an error-status record for the given URL.
func ErrorResult(url, message string) *RateResult {
	return &RateResult{
		URL:    url,
		Status: StatusError,
		Error:  message,
	}
}

// SuccessResult builds a success-status record for the given URL.
func SuccessResult(url, content string) *RateResult {
	return &RateResult{
		URL:     url,
		Status:  StatusSuccess,
		Content: content,
	}
}
