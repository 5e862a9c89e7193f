package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx response, decoded from {"error", "message"} when present
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	msg := e.Code
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return fmt.Sprintf("api status %d: %s", e.Status, msg)
}

// IsStatus reports whether err is an *APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to the FocusFlow backend over JSON/HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client for baseURL, e.g. "http://localhost:8080/api"
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("BackendClient"),
	}
}

// SubmitSession uploads a finalized session for storage and report generation
func (c *Client) SubmitSession(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.do(ctx, http.MethodPost, "/submit-session", req, &resp); err != nil {
		return nil, fmt.Errorf("submit session %s: %w", req.SessionID, err)
	}
	c.logger.Info("Session submitted", zap.String("session_id", resp.SessionID), zap.String("s3_key", resp.S3Key))
	return &resp, nil
}

func (c *Client) ListProfiles(ctx context.Context, therapistID string) ([]Profile, error) {
	var resp ProfilesResponse
	if err := c.do(ctx, http.MethodGet, "/profiles/"+url.PathEscape(therapistID), nil, &resp); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return resp.Profiles, nil
}

func (c *Client) CreateProfile(ctx context.Context, in ProfileInput) (*Profile, error) {
	var resp ProfileResponse
	if err := c.do(ctx, http.MethodPost, "/profiles", in, &resp); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return &resp.Profile, nil
}

func (c *Client) DeleteProfile(ctx context.Context, therapistID, profileID string) error {
	path := "/profiles/" + url.PathEscape(therapistID) + "/" + url.PathEscape(profileID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete profile %s: %w", profileID, err)
	}
	return nil
}

// ListReports returns the user's reports, newest first
func (c *Client) ListReports(ctx context.Context, userID string) ([]Report, error) {
	var resp ReportsResponse
	if err := c.do(ctx, http.MethodGet, "/reports/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return resp.Reports, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	log := c.logger.With(zap.String("method", method), zap.String("path", path))

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, apiErr)
		}
		log.Warn("Backend returned error status", zap.Int("status_code", resp.StatusCode), zap.String("error", apiErr.Code))
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
