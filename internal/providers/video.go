package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	HTTPVideoName           = "http-video"
	videoDefaultPollEvery   = 5 * time.Second
	videoDefaultRateLimitPM = 10
)

// HTTPVideoConfig holds configuration for the HTTP video client.
type HTTPVideoConfig struct {
	// BaseURL of the image-to-video service.
	BaseURL string
	APIKey  string
	// PollInterval between job status checks.
	PollInterval time.Duration
	RateLimit    int // requests per minute
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// HTTPVideoClient implements VideoClient against a generic submit/poll
// image-to-video HTTP API. Vendors differ mostly in auth headers and
// field names, both of which stay behind this client.
type HTTPVideoClient struct {
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	limiter      *RateLimiter
	httpClient   *http.Client
}

// NewHTTPVideoClient creates a new HTTP video client.
func NewHTTPVideoClient(cfg HTTPVideoConfig) *HTTPVideoClient {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = videoDefaultPollEvery
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = videoDefaultRateLimitPM
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPVideoClient{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		pollInterval: cfg.PollInterval,
		limiter:      NewRateLimiter(cfg.RateLimit),
		httpClient:   httpClient,
	}
}

// Name returns the provider identifier.
func (c *HTTPVideoClient) Name() string {
	return HTTPVideoName
}

type videoSubmitRequest struct {
	ImageB64  string `json:"image_b64"`
	Prompt    string `json:"prompt,omitempty"`
	DurationS int    `json:"duration_s,omitempty"`
}

type videoJobResponse struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"` // "pending", "processing", "done", "error"
	Error    string `json:"error,omitempty"`
	VideoB64 string `json:"video_b64,omitempty"`
	Format   string `json:"format,omitempty"`
}

// AnimateImage submits the source image and polls until the clip is
// ready. The transient submit/poll requests retry; a job the service
// reports as failed does not.
func (c *HTTPVideoClient) AnimateImage(ctx context.Context, req *VideoRequest) (*VideoResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	image, err := os.ReadFile(req.SourceImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source image: %w", err)
	}

	start := time.Now()
	submitted, err := c.submit(ctx, &videoSubmitRequest{
		ImageB64:  base64.StdEncoding.EncodeToString(image),
		Prompt:    req.Prompt,
		DurationS: req.DurationS,
	})
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		job, err := c.poll(ctx, submitted.JobID)
		if err != nil {
			return nil, err
		}

		switch job.Status {
		case "done":
			data, err := base64.StdEncoding.DecodeString(job.VideoB64)
			if err != nil {
				return nil, fmt.Errorf("failed to decode video payload: %w", err)
			}
			format := job.Format
			if format == "" {
				format = "mp4"
			}
			return &VideoResult{
				VideoData:     data,
				Format:        format,
				ExecutionTime: time.Since(start),
			}, nil
		case "error":
			return nil, fmt.Errorf("video job failed: %s", job.Error)
		}
	}
}

func (c *HTTPVideoClient) submit(ctx context.Context, body *videoSubmitRequest) (*videoJobResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal video request: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.baseURL+"/v1/jobs", payload)
}

func (c *HTTPVideoClient) poll(ctx context.Context, jobID string) (*videoJobResponse, error) {
	return c.do(ctx, http.MethodGet, c.baseURL+"/v1/jobs/"+jobID, nil)
}

// do performs one API request, retrying 5xx and transport errors.
func (c *HTTPVideoClient) do(ctx context.Context, method, url string, payload []byte) (*videoJobResponse, error) {
	var out videoJobResponse
	err := retry.Do(
		func() error {
			var body io.Reader
			if payload != nil {
				body = bytes.NewReader(payload)
			}
			req, err := http.NewRequestWithContext(ctx, method, url, body)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if payload != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			if c.apiKey != "" {
				req.Header.Set("Authorization", "Bearer "+c.apiKey)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 500 {
				return fmt.Errorf("video service returned %d", resp.StatusCode)
			}
			if resp.StatusCode >= 400 {
				data, _ := io.ReadAll(resp.Body)
				return retry.Unrecoverable(fmt.Errorf("video service returned %d: %s", resp.StatusCode, data))
			}

			return json.NewDecoder(resp.Body).Decode(&out)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
