// internal/clients/client.go
package clients

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"clubnexus/internal/audit"
	"clubnexus/internal/club"
	"clubnexus/internal/collection"
	"clubnexus/internal/membership"
	"clubnexus/internal/session"

	"github.com/go-resty/resty/v2"
)

// Client talks to the /api/v1 surface of a running club server. Error
// responses are mapped back onto the club error taxonomy.
type Client struct {
	http *resty.Client
}

type errorBody struct {
	Error string `json:"error"`
}

// New returns a client for baseURL, e.g. http://localhost:8080/api/v1.
// Requests are not retried, so a failed payment submission is never sent twice.
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30*time.Second).
			SetHeader("Accept", "application/json"),
	}
}

// SetToken authenticates subsequent requests.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

func (c *Client) Login(ctx context.Context, username, password string) (*session.Session, error) {
	var out session.Session
	err := c.do(ctx, http.MethodPost, "/login", map[string]string{"username": username, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

func (c *Client) ListMembers(ctx context.Context) ([]club.Member, error) {
	var out []club.Member
	return out, c.do(ctx, http.MethodGet, "/members", nil, &out)
}

func (c *Client) GetMember(ctx context.Context, id int64) (*club.Member, error) {
	var out club.Member
	if err := c.do(ctx, http.MethodGet, "/members/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateMember(ctx context.Context, in membership.MemberInput) (*club.Member, error) {
	var out club.Member
	if err := c.do(ctx, http.MethodPost, "/members", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Enroll(ctx context.Context, memberID, activityID int64) (*club.Member, error) {
	var out club.Member
	path := fmt.Sprintf("/members/%d/activities", memberID)
	if err := c.do(ctx, http.MethodPost, path, map[string]int64{"activity_id": activityID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AssignLocker(ctx context.Context, lockerID, memberID int64) (*club.Locker, error) {
	var out club.Locker
	path := fmt.Sprintf("/lockers/%d/assign", lockerID)
	if err := c.do(ctx, http.MethodPost, path, map[string]int64{"member_id": memberID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReleaseLocker(ctx context.Context, lockerID int64) (*club.Locker, error) {
	var out club.Locker
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/lockers/%d/release", lockerID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecordPayment(ctx context.Context, req collection.PaymentRequest) (*club.Payment, error) {
	var out club.Payment
	if err := c.do(ctx, http.MethodPost, "/payments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OwingMembers(ctx context.Context, zoneID int64) ([]club.Member, error) {
	var out []club.Member
	return out, c.do(ctx, http.MethodGet, fmt.Sprintf("/zones/%d/owing", zoneID), nil, &out)
}

func (c *Client) CollectorReport(ctx context.Context, collectorID int64) (*collection.CollectorReport, error) {
	var out collection.CollectorReport
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/collectors/%d/report", collectorID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) WeeklyReport(ctx context.Context, collectorID int64) (*collection.WeeklyReport, error) {
	var out collection.WeeklyReport
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/collectors/%d/weekly", collectorID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportWeeklyReport downloads the weekly report workbook.
func (c *Client) ExportWeeklyReport(ctx context.Context, collectorID int64) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&errorBody{}).
		Get(fmt.Sprintf("/collectors/%d/weekly.xlsx", collectorID))
	if err != nil {
		return nil, fmt.Errorf("request weekly export: %w", err)
	}
	if err := asError(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *Client) Dashboard(ctx context.Context) (*membership.Dashboard, error) {
	var out membership.Dashboard
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*membership.Profile, error) {
	var out membership.Profile
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Audit(ctx context.Context, after int64, limit int) ([]audit.Event, error) {
	var out []audit.Event
	path := fmt.Sprintf("/audit?after=%d&limit=%d", after, limit)
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return asError(resp)
}

// asError maps an error response onto the sentinel matching its status.
func asError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	msg := resp.Status()
	if e, ok := resp.Error().(*errorBody); ok && e.Error != "" {
		msg = e.Error
	}

	var sentinel error
	switch resp.StatusCode() {
	case http.StatusNotFound:
		sentinel = club.ErrNotFound
	case http.StatusConflict:
		sentinel = club.ErrConflict
	case http.StatusBadRequest:
		sentinel = club.ErrInvalidInput
	case http.StatusUnauthorized:
		sentinel = club.ErrUnauthenticated
	case http.StatusForbidden:
		sentinel = club.ErrUnauthorized
	case http.StatusTooManyRequests:
		sentinel = club.ErrRateLimited
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), msg)
	}
	return fmt.Errorf("%s: %w", msg, sentinel)
}
