package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

type CloudinaryConfig struct {
	CloudName   string
	APIKey      string
	APISecret   string
	BaseURL     string
	MaxAttempts int
}

// Cloudinary uploads files with the signed upload API.
type Cloudinary struct {
	cfg    CloudinaryConfig
	client *http.Client
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
}

type UploadRequest struct {
	Data         []byte
	Filename     string
	Folder       string
	PublicID     string
	ResourceType string
}

type UploadResult struct {
	URL      string
	PublicID string
}

// ErrNotConfigured is returned when credentials are missing.
var ErrNotConfigured = errors.New("cloudinary is not configured")

func NewCloudinary(cfg CloudinaryConfig, client *http.Client) *Cloudinary {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Cloudinary{cfg: cfg, client: client, now: time.Now, sleep: sleepContext}
}

func (c *Cloudinary) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if c.cfg.CloudName == "" || c.cfg.APIKey == "" || c.cfg.APISecret == "" {
		return nil, ErrNotConfigured
	}
	if len(req.Data) == 0 {
		return nil, errors.New("empty upload")
	}
	resourceType := req.ResourceType
	if resourceType == "" {
		resourceType = "auto"
	}
	endpoint := fmt.Sprintf("%s/%s/%s/upload", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.CloudName, resourceType)

	var lastErr error
	backoff := 200 * time.Millisecond
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		result, retry, err := c.do(ctx, endpoint, req)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retry || attempt == c.cfg.MaxAttempts {
			break
		}
		if err := c.sleep(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
	}
	return nil, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Cloudinary) do(ctx context.Context, endpoint string, req UploadRequest) (*UploadResult, bool, error) {
	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if req.Folder != "" {
		params["folder"] = req.Folder
	}
	if req.PublicID != "" {
		params["public_id"] = req.PublicID
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, false, err
		}
	}
	if err := writer.WriteField("api_key", c.cfg.APIKey); err != nil {
		return nil, false, err
	}
	if err := writer.WriteField("signature", Sign(params, c.cfg.APISecret)); err != nil {
		return nil, false, err
	}
	filename := req.Filename
	if filename == "" {
		filename = "upload"
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, false, err
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, false, err
	}
	if err := writer.Close(); err != nil {
		return nil, false, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, false, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, true, err
	}
	if res.StatusCode >= 500 {
		return nil, true, fmt.Errorf("cloudinary status %d", res.StatusCode)
	}
	var decoded struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		PublicID  string `json:"public_id"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, false, fmt.Errorf("decode cloudinary response: %w", err)
	}
	if res.StatusCode != http.StatusOK || decoded.Error.Message != "" {
		return nil, false, fmt.Errorf("cloudinary status %d: %s", res.StatusCode, decoded.Error.Message)
	}
	url := decoded.SecureURL
	if url == "" {
		url = decoded.URL
	}
	if url == "" {
		return nil, false, errors.New("cloudinary returned no url")
	}
	return &UploadResult{URL: url, PublicID: decoded.PublicID}, false, nil
}

// Sign computes the upload signature: sorted key=value pairs joined by '&',
// followed by the API secret, hashed with SHA-1.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
