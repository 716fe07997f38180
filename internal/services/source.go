package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Source is one CSV export the catalog is rebuilt from
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// NewSource picks an HTTP source for http(s) URLs and a file source otherwise.
// A blank location returns nil, which loads as an empty dataset.
func NewSource(location string, timeout time.Duration) Source {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil
	}
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, timeout)
	}
	return FileSource{Path: location}
}

// HTTPSource downloads a sheet export such as a published Google Sheets CSV
type HTTPSource struct {
	url    string
	client *resty.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "text/csv")

	return &HTTPSource{
		url:    url,
		client: client,
	}
}

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", s.url, resp.StatusCode())
	}
	return io.NopCloser(bytes.NewReader(resp.Body())), nil
}

func (s *HTTPSource) String() string { return s.url }

// FileSource reads a CSV file from disk
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	return f, nil
}

func (s FileSource) String() string { return s.Path }
