// file: services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// ObjectStore 外部对象存储协作方：上传字节，换回一个可公开访问的持久 URL。
// 核心逻辑把它当黑盒，存储实现本身不在范围内。
type ObjectStore struct {
	Endpoint string // 如 https://storage.example.com
	Bucket   string
	APIKey   string
	Client   *http.Client
}

// NewObjectStoreFromEnv 从环境变量装配对象存储客户端
func NewObjectStoreFromEnv() *ObjectStore {
	bucket := os.Getenv("C88_STORAGE_BUCKET")
	if bucket == "" {
		bucket = "evidence"
	}
	return &ObjectStore{
		Endpoint: os.Getenv("C88_STORAGE_ENDPOINT"),
		Bucket:   bucket,
		APIKey:   os.Getenv("C88_STORAGE_API_KEY"),
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload PUT 一个对象，成功返回公开 URL
func (s *ObjectStore) Upload(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	if s.Endpoint == "" {
		return "", fmt.Errorf("object store endpoint not configured")
	}

	target := fmt.Sprintf("%s/object/%s/%s", s.Endpoint, s.Bucket, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	return fmt.Sprintf("%s/object/public/%s/%s", s.Endpoint, s.Bucket, url.PathEscape(key)), nil
}
