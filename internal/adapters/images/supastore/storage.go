package supastore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"

	"rescue-office/internal/ports/images"
)

var ErrNotConfigured = errors.New("supabase storage not configured")

type Config struct {
	ProjectURL     string
	ServiceRoleKey string
	Bucket         string
}

// Storage implementa images.Storage sobre Supabase Storage.
// Los paths que persisten los dominios son relativos al bucket.
type Storage struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func New(cfg Config) (*Storage, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.ProjectURL), "/")
	if baseURL == "" || strings.TrimSpace(cfg.ServiceRoleKey) == "" || strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrNotConfigured
	}

	client := storage.NewClient(baseURL+"/storage/v1", cfg.ServiceRoleKey, nil)
	return &Storage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

func (s *Storage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" {
		return "", errors.New("storage path required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	upsert := true
	_, err := s.client.UploadFile(s.bucket, path, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return path, nil
}

func (s *Storage) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}

func (s *Storage) Delete(ctx context.Context, path string) error {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" {
		return nil
	}
	if _, err := s.client.RemoveFile(s.bucket, []string{path}); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

var _ images.Storage = (*Storage)(nil)
