// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package datacite talks to the DataCite Metadata Store (MDS) API: one
// call stores a metadata document for a DOI, another binds the DOI to the
// URL it resolves to.
package datacite

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/doi-jekyll/internal/errs"
	"github.com/pdiddy/doi-jekyll/internal/httputil"
	"github.com/pdiddy/doi-jekyll/internal/logging"
	"github.com/pdiddy/doi-jekyll/pkg/types"
)

const (
	metadataContentType = "application/xml;charset=UTF-8"
	urlContentType      = "text/plain;charset=UTF-8"

	defaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of a failed response is kept in the error.
	maxErrorBody = 4096
)

// Client submits registrations to one MDS endpoint.
type Client struct {
	baseURL     string
	credentials types.Credentials
	httpClient  *http.Client
	cfg         types.HTTPConfig
	log         logging.Logger
}

// NewClient returns a client for the MDS API at baseURL, e.g.
// https://mds.test.datacite.org. A nil httpClient gets one with
// cfg.Timeout (30 s when unset).
func NewClient(baseURL string, creds types.Credentials, cfg types.HTTPConfig, httpClient *http.Client, log logging.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = logging.NoOp()
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		credentials: creds,
		httpClient:  httpClient,
		cfg:         cfg,
		log:         log,
	}
}

// RegisterMetadata stores the XML metadata document for doi.
func (c *Client) RegisterMetadata(ctx context.Context, doi string, xml []byte) error {
	return c.put(ctx, "/metadata/"+doi, metadataContentType, xml, "registering metadata for "+doi)
}

// RegisterURL binds doi to url. The DOI must already have metadata.
func (c *Client) RegisterURL(ctx context.Context, doi, url string) error {
	body := fmt.Sprintf("#Content-Type:text/plain;charset=UTF-8\ndoi= %s\nurl= %s", doi, url)
	return c.put(ctx, "/doi/"+doi, urlContentType, []byte(body), "registering URL for "+doi)
}

func (c *Client) put(ctx context.Context, path, contentType string, body []byte, action string) error {
	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return errs.Configuration(err, "creating request for "+endpoint)
	}
	req.Header.Set("Content-Type", contentType)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	req.SetBasicAuth(c.credentials.User, c.credentials.Password)

	c.log.Debug("PUT", "url", endpoint, "content_type", contentType, "bytes", len(body))
	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries, c.log)
	if err != nil {
		return errs.Submission(err, action)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errs.Submission(&StatusError{
			Method: http.MethodPut,
			URL:    endpoint,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(detail)),
		}, action)
	}
	io.Copy(io.Discard, resp.Body)
	c.log.Info("registration call succeeded", "url", endpoint, "status", resp.StatusCode)
	return nil
}

// StatusError is a non-2xx reply from the MDS API.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s returned HTTP %d", e.Method, e.URL, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}
