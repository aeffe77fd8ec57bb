package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/candidhq/intake/internal/core/domain"
)

// Response is the JSON shape the intake endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// Client posts multipart submissions to the intake endpoint. It implements
// submit.Transport: any non-2xx status or success=false body becomes an
// error carrying the server's message for classification upstream.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint URL.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Send performs one POST of the payload. Exactly one network call per
// invocation; retrying is the caller's concern.
func (c *Client) Send(ctx context.Context, payload *domain.SubmissionPayload) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for k, v := range payload.Fields {
		if err := writer.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	for _, f := range payload.Files {
		part, err := writer.CreateFormFile(f.FieldID, f.Filename)
		if err != nil {
			return fmt.Errorf("create file part %s: %w", f.FieldID, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("write file part %s: %w", f.FieldID, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post submission: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var decoded Response
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !decoded.Success {
		if decoded.Message != "" {
			return fmt.Errorf("submission rejected: %s", decoded.Message)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return nil
}
