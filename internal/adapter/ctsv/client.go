// Package ctsv is a client for the HUST CTSV portal APIs (scholarships,
// activities, recruitment listings).
package ctsv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36"

// RawScholarship is a scholarship record as returned by the portal.
type RawScholarship struct {
	DocumentID   int    `json:"DocumentId"`
	Title        string `json:"Title"`
	Deadline     string `json:"Deadline"` // "YYYY-MM-DD HH:MM:SS", may be empty
	TotalPrice   string `json:"TotalPrice"`
	Quantity     int    `json:"Quantity"`
	TypeInfo     string `json:"TypeInfo"`
	Content      string `json:"Content"` // HTML markup
	ContactEmail string `json:"ContactEmail"`
}

// RawActivity is an activity record as returned by the portal.
type RawActivity struct {
	AID       int    `json:"AId"`
	AName     string `json:"AName"`
	GName     string `json:"GName"`
	AType     string `json:"AType"`
	APlace    string `json:"APlace"`
	ADesc     string `json:"ADesc"` // HTML markup
	StartTime string `json:"StartTime"`
	Avatar    string `json:"Avatar"`
}

// RawJob is a recruitment record as returned by the portal.
type RawJob struct {
	RID            int    `json:"RId"`
	Title          string `json:"Title"`
	CompanyName    string `json:"CompanyName"`
	Location       string `json:"Location"`
	MajorsRequired string `json:"Career"`
	Content        string `json:"Content"` // HTML markup
	Deadline       string `json:"Deadline"`
}

// Client calls the CTSV portal APIs.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a CTSV portal client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if baseURL == "" {
		baseURL = "https://ctsv.hust.edu.vn"
	}
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With(zap.String("component", "ctsv")),
	}
}

// BaseURL returns the portal base URL, without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer null")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ctsv request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ctsv returned %d for %s", resp.StatusCode, path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode ctsv response: %w", err)
	}
	return nil
}

// FetchScholarships returns every approved scholarship record.
func (c *Client) FetchScholarships(ctx context.Context) ([]RawScholarship, error) {
	var resp struct {
		ScholarshipLst []RawScholarship `json:"ScholarshipLst"`
	}
	if err := c.post(ctx, "/api-t/HWScholarship/GetApprovedScholarship", map[string]any{}, &resp); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched scholarships", zap.Int("count", len(resp.ScholarshipLst)))
	return resp.ScholarshipLst, nil
}

// FetchActivities returns one page of published activities.
func (c *Client) FetchActivities(ctx context.Context, page, pageSize int) ([]RawActivity, error) {
	var resp struct {
		Activities []RawActivity `json:"Activities"`
	}
	payload := map[string]any{
		"Signature":  "sample string 4",
		"NumberRow":  pageSize,
		"PageNumber": page,
	}
	if err := c.post(ctx, "/api-t/Activity/GetPublishActivity", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Activities, nil
}

// FetchJobs returns one page of published recruitment listings for the given
// publish location.
func (c *Client) FetchJobs(ctx context.Context, page, pageSize, locationCode int) ([]RawJob, error) {
	var resp struct {
		RecruitmentLst []RawJob `json:"RecruitmentLst"`
	}
	payload := map[string]any{
		"filter":          map[string]any{},
		"NumberRow":       pageSize,
		"PageNumber":      page,
		"PublishLocation": locationCode,
	}
	if err := c.post(ctx, "/api-t/HWRecruitment/GetPublishRecruitment", payload, &resp); err != nil {
		return nil, err
	}
	return resp.RecruitmentLst, nil
}
