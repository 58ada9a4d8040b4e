package client

import (
	"context"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/use-agent/sitegauge/config"
	"github.com/use-agent/sitegauge/models"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// urlFieldNames are the duplicate form field names the target URL is
// submitted under. The receiving form's exact field name is unknown, so
// posting all of them maximizes the odds of one being recognized.
var urlFieldNames = []string{"url", "website", "site", "domain"}

// Client is the HTTP acquisition client for the rating service. It keeps
// one resty session per Client (persistent cookies and headers across the
// homepage fetch and the submission), with a Chrome TLS fingerprint.
type Client struct {
	http *resty.Client
	base *url.URL

	// homepageTimeout bounds FetchHomepage; submissions use the session
	// timeout on the resty client.
	homepageTimeout time.Duration
}

// New builds a Client against the configured service URL.
func New(cfg config.RaterConfig) (*Client, error) {
	base, err := url.Parse(cfg.ServiceURL)
	if err != nil {
		return nil, models.NewRateError(models.ErrCodeInvalidInput, "invalid service URL", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, models.NewRateError(models.ErrCodeInternal, "create cookie jar", err)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(cfg.ServiceURL)
	httpClient.SetCookieJar(jar)
	httpClient.SetTransport(newChromeTransport())
	httpClient.SetTimeout(cfg.SubmitTimeout)
	httpClient.SetHeader("User-Agent", chromeUA)
	httpClient.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpClient.SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Client{http: httpClient, base: base, homepageTimeout: cfg.HTTPTimeout}, nil
}

// BaseURL returns the parsed service base URL.
func (c *Client) BaseURL() *url.URL {
	return c.base
}

// FetchHomepage loads the service homepage, bounded by the homepage
// timeout. The returned HTML is used to discover the submission form and
// anti-forgery token.
func (c *Client) FetchHomepage(ctx context.Context) (string, error) {
	if c.homepageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.homepageTimeout)
		defer cancel()
	}

	res, err := c.http.R().SetContext(ctx).Get("")
	if err != nil {
		return "", models.NewRateError(models.ErrCodeSubmitFailed, "failed to load service homepage", err)
	}
	if res.StatusCode() >= 400 {
		return "", models.NewRateError(models.ErrCodeSubmitFailed,
			"service homepage returned "+res.Status(), nil)
	}
	return res.String(), nil
}

// Submit POSTs the target URL to the discovered form action, under every
// duplicate field name, echoing back the anti-forgery token if one was
// found. Returns the response body and the final URL after redirects.
func (c *Client) Submit(ctx context.Context, targetURL string, form FormTarget) (string, string, error) {
	fields := make(map[string]string, len(urlFieldNames)+1)
	for _, name := range urlFieldNames {
		fields[name] = targetURL
	}
	if form.TokenField != "" {
		fields[form.TokenField] = form.TokenValue
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(fields).
		Post(form.Action)
	if err != nil {
		return "", "", models.NewRateError(models.ErrCodeSubmitFailed, "form submission failed", err)
	}
	if res.StatusCode() >= 400 {
		return "", "", models.NewRateError(models.ErrCodeSubmitFailed,
			"form submission returned "+res.Status(), nil)
	}

	return res.String(), finalURL(res, form.Action), nil
}

// SubmitQuery GETs the service base URL with the target passed as a query
// parameter, the second acquisition strategy when the form POST yields no
// analysis.
func (c *Client) SubmitQuery(ctx context.Context, targetURL string) (string, string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("url", targetURL).
		Get("")
	if err != nil {
		return "", "", models.NewRateError(models.ErrCodeSubmitFailed, "query submission failed", err)
	}
	if res.StatusCode() >= 400 {
		return "", "", models.NewRateError(models.ErrCodeSubmitFailed,
			"query submission returned "+res.Status(), nil)
	}

	return res.String(), finalURL(res, c.base.String()), nil
}

// finalURL reports the URL the response was ultimately served from,
// falling back to the request target when unavailable.
func finalURL(res *resty.Response, fallback string) string {
	if res.RawResponse != nil && res.RawResponse.Request != nil && res.RawResponse.Request.URL != nil {
		return res.RawResponse.Request.URL.String()
	}
	return fallback
}
