package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	domain "github.com/resumelens/resumelens/internal/domain/analyses"
)

// Client calls the external résumé analysis API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

// Analyze posts the file as multipart form data and decodes the JSON body.
// Exactly one POST per call; a failed analysis is not retried here.
func (c *Client) Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.Result, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, fmt.Errorf("building multipart payload: %w", err)
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, fmt.Errorf("building multipart payload: %w", err)
	}
	// Empty optional fields are left out of the payload entirely, not sent
	// as empty strings.
	if req.JobTitle != "" {
		if err := mw.WriteField("job_title", req.JobTitle); err != nil {
			return nil, err
		}
	}
	if req.Industry != "" {
		if err := mw.WriteField("industry", req.Industry); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-resume", &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Error bodies carry {"detail": "..."}; anything unreadable falls
		// back to a generic message.
		detail := "Failed to analyze resume"
		var body struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
			detail = body.Detail
		}
		return nil, &domain.AnalysisError{Status: resp.StatusCode, Detail: detail}
	}

	var out domain.Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.AnalysisError{Status: resp.StatusCode, Detail: "unreadable analyzer response"}
	}
	return &out, nil
}
