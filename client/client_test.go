package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/use-agent/sitegauge/config"
)

func testConfig(serviceURL string) config.RaterConfig {
	return config.RaterConfig{
		ServiceURL:    serviceURL,
		HTTPTimeout:   5 * time.Second,
		SubmitTimeout: 5 * time.Second,
	}
}

func TestFetchHomepage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><form action='/rate'></form></body></html>"))
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	body, err := c.FetchHomepage(context.Background())
	if err != nil {
		t.Fatalf("FetchHomepage: %v", err)
	}
	if body == "" {
		t.Error("homepage body should not be empty")
	}
}

func TestFetchHomepage_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.FetchHomepage(context.Background()); err == nil {
		t.Error("expected an error for a 5xx homepage")
	}
}

func TestFetchHomepage_TimeoutApplies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.HTTPTimeout = 50 * time.Millisecond

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.FetchHomepage(context.Background()); err == nil {
		t.Error("expected a timeout error for a slow homepage")
	}
}

func TestSubmit_PostsDuplicateFieldsAndToken(t *testing.T) {
	var gotForm url.Values
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotForm = r.PostForm
		w.Write([]byte("analysis response"))
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	body, finalURL, err := c.Submit(context.Background(), "https://target.test", FormTarget{
		Action:     srv.URL + "/analyze",
		TokenField: "csrf_token",
		TokenValue: "abc123",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if gotPath != "/analyze" {
		t.Errorf("posted to %q, want /analyze", gotPath)
	}
	for _, name := range urlFieldNames {
		if gotForm.Get(name) != "https://target.test" {
			t.Errorf("field %q = %q, want the target URL", name, gotForm.Get(name))
		}
	}
	if gotForm.Get("csrf_token") != "abc123" {
		t.Errorf("token not echoed back: %q", gotForm.Get("csrf_token"))
	}
	if body != "analysis response" {
		t.Errorf("body = %q", body)
	}
	if finalURL == "" {
		t.Error("finalURL should never be empty")
	}
}

func TestSubmitQuery_SendsURLParam(t *testing.T) {
	var gotQuery url.Values

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte("analysis response"))
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	body, _, err := c.SubmitQuery(context.Background(), "https://target.test")
	if err != nil {
		t.Fatalf("SubmitQuery: %v", err)
	}

	if gotQuery.Get("url") != "https://target.test" {
		t.Errorf("url param = %q, want the target URL", gotQuery.Get("url"))
	}
	if body != "analysis response" {
		t.Errorf("body = %q", body)
	}
}

func TestSubmit_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, _, err := c.Submit(context.Background(), "https://target.test", FormTarget{Action: srv.URL}); err == nil {
		t.Error("expected an error for a 4xx submission response")
	}
}

func TestNew_InvalidServiceURL(t *testing.T) {
	if _, err := New(testConfig("://not a url")); err == nil {
		t.Error("expected an error for an invalid service URL")
	}
}
