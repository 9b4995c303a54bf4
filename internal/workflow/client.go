// Package workflow is the orchestration layer the admin and student front
// ends drive: it talks to the campusact REST API, gates every mutation on
// the freshest offering status via the policy package, and runs the
// two-phase video upload protocol.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kerem/campusact/internal/app/models"
	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/pkg/policy"
)

// BackendError reports a non-2xx API response. The message is the one the
// backend sent when its error body could be decoded, else a generic fallback.
type BackendError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}

// Client is a thin typed wrapper over the REST API. It performs no retries;
// every call is a single attempt and callers decide what to do on failure.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client for the API rooted at baseURL (no trailing
// slash). The token is sent as a bearer credential on every request.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type envelope struct {
	Data json.RawMessage     `json:"data"`
	Meta *dto.PaginationMeta `json:"meta"`
}

type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do sends a request and decodes the {data, meta} envelope into out. A non-2xx
// status yields a *BackendError carrying the server's message when present.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (*dto.PaginationMeta, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, backendError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding response envelope: %w", err)
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decoding response data: %w", err)
		}
	}
	return env.Meta, nil
}

func backendError(status int, raw []byte) *BackendError {
	be := &BackendError{StatusCode: status, Message: "request failed"}
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil && env.Error.Message != "" {
		be.Code = env.Error.Code
		be.Message = env.Error.Message
	}
	return be
}

// OfferingFilter carries the list query parameters.
type OfferingFilter struct {
	Page       int
	Size       int
	Keyword    string
	SemesterID int64
}

// ListOfferings fetches a page of offering summaries.
func (c *Client) ListOfferings(ctx context.Context, filter OfferingFilter) ([]*models.Offering, *dto.PaginationMeta, error) {
	q := url.Values{}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Size > 0 {
		q.Set("size", strconv.Itoa(filter.Size))
	}
	if filter.Keyword != "" {
		q.Set("keyword", filter.Keyword)
	}
	if filter.SemesterID > 0 {
		q.Set("semesterId", strconv.FormatInt(filter.SemesterID, 10))
	}

	path := "/offerings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var offerings []*models.Offering
	meta, err := c.do(ctx, http.MethodGet, path, nil, &offerings)
	if err != nil {
		return nil, nil, err
	}
	return offerings, meta, nil
}

// GetOffering fetches one offering's detail, including its fresh status.
func (c *Client) GetOffering(ctx context.Context, offeringID int64) (*models.Offering, error) {
	var offering models.Offering
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/offerings/%d", offeringID), nil, &offering); err != nil {
		return nil, err
	}
	return &offering, nil
}

// UpdateOffering sends a field diff and returns the server's fresh view.
func (c *Client) UpdateOffering(ctx context.Context, offeringID int64, patch *dto.UpdateOfferingRequest) (*models.Offering, error) {
	var offering models.Offering
	if _, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/offerings/%d", offeringID), patch, &offering); err != nil {
		return nil, err
	}
	return &offering, nil
}

// ChangeOfferingStatus requests a status transition.
func (c *Client) ChangeOfferingStatus(ctx context.Context, offeringID int64, target policy.OfferingStatus) (*models.Offering, error) {
	var offering models.Offering
	body := dto.ChangeOfferingStatusRequest{Status: target}
	if _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/offerings/%d/status", offeringID), body, &offering); err != nil {
		return nil, err
	}
	return &offering, nil
}

// ListSessions fetches an offering's sessions.
func (c *Client) ListSessions(ctx context.Context, offeringID int64) ([]*models.Session, error) {
	var sessions []*models.Session
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/offerings/%d/sessions", offeringID), nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CreateSession creates a session under an offering.
func (c *Client) CreateSession(ctx context.Context, offeringID int64, input *dto.CreateSessionRequest) (*models.Session, error) {
	var session models.Session
	if _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/offerings/%d/sessions", offeringID), input, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSession sends a session field diff.
func (c *Client) UpdateSession(ctx context.Context, offeringID, sessionID int64, patch *dto.UpdateSessionRequest) (*models.Session, error) {
	var session models.Session
	path := fmt.Sprintf("/offerings/%d/sessions/%d", offeringID, sessionID)
	if _, err := c.do(ctx, http.MethodPatch, path, patch, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ChangeSessionStatus requests a session status transition.
func (c *Client) ChangeSessionStatus(ctx context.Context, offeringID, sessionID int64, target policy.SessionStatus) (*models.Session, error) {
	var session models.Session
	body := dto.ChangeSessionStatusRequest{Status: target}
	path := fmt.Sprintf("/offerings/%d/sessions/%d/status", offeringID, sessionID)
	if _, err := c.do(ctx, http.MethodPost, path, body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// PresignUpload asks for a pre-signed upload slot for a session video.
func (c *Client) PresignUpload(ctx context.Context, offeringID int64, req *dto.PresignUploadRequest) (*dto.UploadSlotResponse, error) {
	var slot dto.UploadSlotResponse
	path := fmt.Sprintf("/offerings/%d/uploads", offeringID)
	if _, err := c.do(ctx, http.MethodPost, path, req, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetStudentSessionDetail fetches a session with its signed playback URL.
func (c *Client) GetStudentSessionDetail(ctx context.Context, offeringID, sessionID int64) (*models.Session, error) {
	var session models.Session
	path := fmt.Sprintf("/offerings/%d/sessions/%d/watch", offeringID, sessionID)
	if _, err := c.do(ctx, http.MethodGet, path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ConfirmAttendance records a completed watch for the authenticated student.
func (c *Client) ConfirmAttendance(ctx context.Context, offeringID, sessionID int64, watchedSeconds int) error {
	body := dto.ConfirmAttendanceRequest{WatchedSeconds: watchedSeconds}
	path := fmt.Sprintf("/offerings/%d/sessions/%d/attendance", offeringID, sessionID)
	_, err := c.do(ctx, http.MethodPost, path, body, nil)
	return err
}

// ExpandStartOfDay maps a date-only form value to midnight, the start-of-range
// convention for submitted dates.
func ExpandStartOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// ExpandEndOfDay maps a date-only form value to 23:59:59, the end-of-range
// convention for submitted dates.
func ExpandEndOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}
