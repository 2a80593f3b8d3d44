// Package upstream is the HTTP client for the remote training platform that
// owns the authoritative child data. It distinguishes "the resource does not
// exist" from every other failure so the resolver can apply its fallback
// policy.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"speakwise/internal/analytics"
	"speakwise/internal/models"
)

// ErrNotFound signals that the upstream resource does not exist. Callers
// check it with errors.Is.
var ErrNotFound = errors.New("upstream resource not found")

// ChildProfile carries the auxiliary identity fields served by the profile
// endpoint. All fields are optional upstream.
type ChildProfile struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// ProgressRecord is the canonical progress document for one child. Sessions
// stay raw here: the embedded list is the loosely-typed legacy shape and goes
// through the normalizer before anything consumes it.
type ProgressRecord struct {
	Child    *ChildProfile           `json:"child"`
	Sessions []analytics.RawSession  `json:"sessions"`
}

// Client calls the remote training API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates an upstream API client. The timeout bounds every request;
// there is no retry, a failed call is simply reported to the caller.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// GetChildProgress fetches the canonical progress record. This is the one
// source expected to always exist; its absence fails the analytics request.
func (c *Client) GetChildProgress(ctx context.Context, childID string) (*ProgressRecord, error) {
	body, err := c.get(ctx, "/children/"+url.PathEscape(childID)+"/progress", nil)
	if err != nil {
		return nil, err
	}

	var record ProgressRecord
	if err := json.Unmarshal(body, &record); err != nil {
		// Some producers wrap the record one level deep.
		var wrapped struct {
			Progress *ProgressRecord `json:"progress"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil || wrapped.Progress == nil {
			return nil, fmt.Errorf("decode progress record: %w", err)
		}
		return wrapped.Progress, nil
	}
	if record.Child == nil && record.Sessions == nil {
		var wrapped struct {
			Progress *ProgressRecord `json:"progress"`
		}
		if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Progress != nil {
			return wrapped.Progress, nil
		}
	}
	return &record, nil
}

// GetChildSessions fetches the session listing endpoint. Its payload is
// already summary-shaped and is used verbatim when present.
func (c *Client) GetChildSessions(ctx context.Context, childID string) ([]models.SessionSummary, error) {
	body, err := c.get(ctx, "/children/"+url.PathEscape(childID)+"/sessions", nil)
	if err != nil {
		return nil, err
	}

	var sessions []models.SessionSummary
	if err := decodeList(body, "sessions", &sessions); err != nil {
		return nil, fmt.Errorf("decode session listing: %w", err)
	}
	return sessions, nil
}

// GetChildAttempts fetches the attempt listing endpoint, newest first, capped
// server-side by limit.
func (c *Client) GetChildAttempts(ctx context.Context, childID string, limit int) ([]models.AttemptRecord, error) {
	query := url.Values{"limit": {strconv.Itoa(analytics.ClampAttemptLimit(limit))}}
	body, err := c.get(ctx, "/children/"+url.PathEscape(childID)+"/attempts", query)
	if err != nil {
		return nil, err
	}

	var attempts []models.AttemptRecord
	if err := decodeList(body, "attempts", &attempts); err != nil {
		return nil, fmt.Errorf("decode attempt listing: %w", err)
	}
	return attempts, nil
}

// GetChildProfile fetches the auxiliary name/age fields. Failure here is
// tolerated by the resolver.
func (c *Client) GetChildProfile(ctx context.Context, childID string) (*ChildProfile, error) {
	body, err := c.get(ctx, "/children/"+url.PathEscape(childID), nil)
	if err != nil {
		return nil, err
	}

	var profile ChildProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("decode child profile: %w", err)
	}
	return &profile, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: upstream returned status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	return body, nil
}

// decodeList accepts both a bare JSON array and a `{key: [...]}` wrapper,
// which upstream producers use interchangeably.
func decodeList(body []byte, key string, dst any) error {
	if err := json.Unmarshal(body, dst); err == nil {
		return nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return err
	}
	raw, ok := wrapper[key]
	if !ok {
		return fmt.Errorf("response has neither an array body nor a %q field", key)
	}
	return json.Unmarshal(raw, dst)
}
