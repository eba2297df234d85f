// Package uploader stores files and metadata JSON through the web service /assets endpoint
// and reads off-chain metadata back.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
)

const (
	assetsPath = "/assets"
	// off-chain metadata and course images are small, anything bigger is refused
	maxResponseSize = 10 << 20
)

type Client struct {
	baseUrl    string
	httpClient *http.Client

	public          bool
	maxResponseSize int64
}

type uploadResponse struct {
	ID  string `json:"id"`
	Uri string `json:"uri"`
}

func New(baseUrl string, timeout time.Duration) *Client {
	return &Client{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
		maxResponseSize: maxResponseSize,
	}
}

// Upload stores data and returns the public uri it is served from.
func (c *Client) Upload(ctx context.Context, contentType string, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+assetsPath, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("NewRequest: %s", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %s", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read response: %s", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var res uploadResponse
	err = json.Unmarshal(body, &res)
	if err != nil {
		return "", fmt.Errorf("json.Unmarshal: %s", err)
	}
	if res.Uri == "" {
		return "", fmt.Errorf("upload: empty uri in response")
	}

	return res.Uri, nil
}

// UploadFile uploads a local file, the content type comes from the extension or the file head.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("ReadFile: %s", err)
	}

	return c.Upload(ctx, ContentType(path, data), data)
}

func (c *Client) UploadJSON(ctx context.Context, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %s", err)
	}

	return c.Upload(ctx, "application/json", data)
}

// FetchJSON decodes the document at uri into v. Clients from NewPublicFetcher only accept public https uris.
func (c *Client) FetchJSON(ctx context.Context, uri string, v any) error {
	err := c.checkFetchUri(uri)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return fmt.Errorf("NewRequest: %s", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", uri, resp.StatusCode)
	}

	err = json.NewDecoder(io.LimitReader(resp.Body, c.maxResponseSize)).Decode(v)
	if err != nil {
		return fmt.Errorf("decode %s: %s", uri, err)
	}

	return nil
}

func ContentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}

	return http.DetectContentType(data)
}
