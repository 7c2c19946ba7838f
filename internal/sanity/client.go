// Package sanity is a small read-only client for the Sanity HTTP query API.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Querier executes a GROQ query and decodes its result into out.
type Querier interface {
	Fetch(ctx context.Context, query string, params map[string]any, out any) error
}

// Config identifies a project/dataset and how to reach it.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string // date form, e.g. 2025-11-10
	UseCDN     bool
	Token      string
	Timeout    time.Duration
	Retries    int

	// BaseURL overrides the host derived from ProjectID and UseCDN.
	BaseURL string
}

// QueryError is returned when the API answers with an error payload or a
// non-2xx status.
type QueryError struct {
	Status      int
	Type        string
	Description string
}

func (e *QueryError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("sanity: %d %s: %s", e.Status, e.Type, e.Description)
	}
	return fmt.Sprintf("sanity: %d: %s", e.Status, e.Description)
}

type Client struct {
	client *resty.Client
	path   string
}

type queryEnvelope struct {
	Result json.RawMessage `json:"result"`
	MS     int             `json:"ms"`
}

type errorEnvelope struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type errorDetail struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}

// NewClient validates cfg and returns a client for its dataset.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" && cfg.BaseURL == "" {
		return nil, errors.New("sanity: project id is required")
	}
	if cfg.Dataset == "" {
		return nil, errors.New("sanity: dataset is required")
	}
	if _, err := time.Parse("2006-01-02", cfg.APIVersion); err != nil {
		return nil, fmt.Errorf("sanity: api version must be a date: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	base := cfg.BaseURL
	if base == "" {
		host := "api.sanity.io"
		if cfg.UseCDN {
			host = "apicdn.sanity.io"
		}
		base = fmt.Sprintf("https://%s.%s", cfg.ProjectID, host)
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(250 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		}).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}

	return &Client{
		client: rc,
		path:   fmt.Sprintf("/v%s/data/query/%s", cfg.APIVersion, cfg.Dataset),
	}, nil
}

// Fetch runs query with params bound as GROQ parameters ($name) and decodes
// the result into out. A null result leaves out untouched.
func (c *Client) Fetch(ctx context.Context, query string, params map[string]any, out any) error {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("query", query)

	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("sanity: encode param %q: %w", name, err)
		}
		req.SetQueryParam("$"+name, string(encoded))
	}

	resp, err := req.Get(c.path)
	if err != nil {
		return fmt.Errorf("sanity: request failed: %w", err)
	}

	if resp.IsError() {
		return decodeError(resp.StatusCode(), resp.Body())
	}

	var env queryEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("sanity: decode response: %w", err)
	}

	if len(env.Result) == 0 || bytes.Equal(env.Result, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("sanity: decode result: %w", err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	qe := &QueryError{Status: status, Description: http.StatusText(status)}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return qe
	}

	var detail errorDetail
	var plain string
	switch {
	case json.Unmarshal(env.Error, &detail) == nil && detail.Description != "":
		qe.Description = detail.Description
		qe.Type = detail.Type
	case json.Unmarshal(env.Error, &plain) == nil && plain != "":
		qe.Description = plain
		if env.Message != "" {
			qe.Description = plain + ": " + env.Message
		}
	case env.Message != "":
		qe.Description = env.Message
	}
	return qe
}
