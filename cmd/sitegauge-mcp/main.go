// Command sitegauge-mcp exposes the rating API as MCP tools over stdio,
// so agent runtimes can rate websites without speaking HTTP themselves.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// rateRequest mirrors the Sitegauge API request model.
type rateRequest struct {
	URL          string `json:"url"`
	OutputFormat string `json:"output_format,omitempty"`
	FetchMode    string `json:"fetch_mode,omitempty"`
}

// rateResponse mirrors the Sitegauge API response model.
type rateResponse struct {
	Success     bool              `json:"success"`
	URL         string            `json:"url"`
	Content     string            `json:"content"`
	Scores      map[string]string `json:"scores"`
	Synthesized bool              `json:"synthesized"`
	Source      string            `json:"source"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// batchResponse mirrors the Sitegauge batch API response.
type batchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// batchStatusResponse mirrors the Sitegauge batch status API response.
type batchStatusResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Results   []struct {
		URL     string `json:"url"`
		Status  string `json:"status"`
		Content string `json:"content"`
		Error   string `json:"error"`
	} `json:"results"`
}

func main() {
	apiURL := os.Getenv("SITEGAUGE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("SITEGAUGE_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "SITEGAUGE_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"sitegauge",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	rateSiteTool := mcp.NewTool("rate_site",
		mcp.WithDescription("Rate a website's UI/UX and return a textual analysis report with per-category scores (consumer appeal, technical implementation, visual design, trust, ...)."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the website to rate"),
		),
		mcp.WithString("output_format",
			mcp.Description("Report format: 'text' (default) or 'markdown'"),
			mcp.Enum("text", "markdown"),
		),
		mcp.WithString("fetch_mode",
			mcp.Description("Acquisition strategy: 'auto' (default, escalates form POST → query GET → browser), 'form', 'query', or 'browser'"),
			mcp.Enum("auto", "form", "query", "browser"),
		),
	)
	s.AddTool(rateSiteTool, handleRateSite(apiURL, apiKey))

	batchRateTool := mcp.NewTool("batch_rate",
		mcp.WithDescription("Rate multiple websites sequentially and return a report per URL. URLs are processed one at a time with pacing, so large batches take a while."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("List of website URLs to rate"),
		),
		mcp.WithString("output_format",
			mcp.Description("Report format: 'text' (default) or 'markdown'"),
			mcp.Enum("text", "markdown"),
		),
	)
	s.AddTool(batchRateTool, handleBatchRate(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the Sitegauge API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// pollJobCompletion polls a job endpoint until status is no longer "processing" or context is cancelled.
func pollJobCompletion(ctx context.Context, client *http.Client, apiURL, apiKey, endpoint string) ([]byte, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+endpoint, nil)
			if err != nil {
				return nil, fmt.Errorf("create poll request: %w", err)
			}
			req.Header.Set("X-API-Key", apiKey)

			resp, err := client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("poll request failed: %w", err)
			}

			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read poll response: %w", err)
			}

			// Quick check if still processing.
			var status struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(body, &status); err != nil {
				return nil, fmt.Errorf("parse poll status: %w", err)
			}

			if status.Status != "processing" {
				return body, nil
			}
		}
	}
}

func handleRateSite(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := rateRequest{
			URL:          url,
			OutputFormat: request.GetString("output_format", ""),
			FetchMode:    request.GetString("fetch_mode", ""),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/rate", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("rate request failed: %v", err)), nil
		}

		var rateResp rateResponse
		if err := json.Unmarshal(respBody, &rateResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !rateResp.Success {
			errMsg := "rating failed"
			if rateResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", rateResp.Error.Code, rateResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		result := rateResp.Content
		if rateResp.Synthesized {
			result += "\n\n---\nNote: report synthesized from partial signals (source: " + rateResp.Source + ")"
		}
		return mcp.NewToolResultText(result), nil
	}
}

func handleBatchRate(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}

		payload := map[string]interface{}{
			"urls": urls,
			"options": map[string]interface{}{
				"output_format": request.GetString("output_format", ""),
			},
		}

		// POST to create batch job.
		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/batch/rate", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("batch request failed: %v", err)), nil
		}

		var batchResp batchResponse
		if err := json.Unmarshal(respBody, &batchResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse batch response: %v", err)), nil
		}

		if batchResp.ID == "" {
			return mcp.NewToolResultError("batch job creation failed"), nil
		}

		// Poll for completion.
		resultBody, err := pollJobCompletion(ctx, client, apiURL, apiKey, "/api/v1/batch/"+batchResp.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("polling batch job failed: %v", err)), nil
		}

		var statusResp batchStatusResponse
		if err := json.Unmarshal(resultBody, &statusResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse batch status: %v", err)), nil
		}

		// Format results.
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Batch %s: %s (%d/%d completed)\n\n", statusResp.ID, statusResp.Status, statusResp.Completed, statusResp.Total))

		for i, r := range statusResp.Results {
			if r.Status == "success" {
				sb.WriteString(fmt.Sprintf("--- [%d] %s ---\n%s\n\n", i+1, r.URL, r.Content))
			} else {
				sb.WriteString(fmt.Sprintf("--- [%d] %s FAILED: %s ---\n\n", i+1, r.URL, r.Error))
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
