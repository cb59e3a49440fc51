package typeface

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"align-eval/eval-portal/report-backend/pkg/storage"
)

// Source fetches raw font bytes from a location
type Source interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Location schemes understood by MultiSource
const (
	SchemeEmbedded = "embedded"
	SchemeS3       = "s3"
	SchemeHTTP     = "http"
	SchemeHTTPS    = "https"
	SchemeFile     = "file"
)

// FileSource reads fonts from the local filesystem
type FileSource struct{}

// Fetch reads a plain path or a file:// URL
func (FileSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	path := strings.TrimPrefix(location, SchemeFile+"://")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	return data, nil
}

// HTTPSource downloads fonts from static asset URLs
type HTTPSource struct {
	Client *http.Client
}

// Fetch performs a GET and returns the body
func (s HTTPSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch font: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching font: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read font body: %w", err)
	}
	return data, nil
}

// S3Source reads fonts from s3://bucket/key locations
type S3Source struct {
	Client storage.S3Client
}

// Fetch downloads the object named by location
func (s S3Source) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid s3 location: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Scheme != SchemeS3 || u.Host == "" || key == "" {
		return nil, fmt.Errorf("invalid s3 location %q", location)
	}
	return s.Client.Download(ctx, u.Host, key)
}

// EmbeddedSource serves the Go fonts compiled into the binary. It covers
// Latin text only and is meant as a fallback.
type EmbeddedSource struct{}

// Fetch accepts "embedded:regular" and "embedded:bold"
func (EmbeddedSource) Fetch(_ context.Context, location string) ([]byte, error) {
	switch strings.TrimPrefix(location, SchemeEmbedded+":") {
	case "regular":
		return goregular.TTF, nil
	case "bold":
		return gobold.TTF, nil
	}
	return nil, fmt.Errorf("unknown embedded font %q", location)
}

// MultiSource dispatches a location to a source by its scheme. Locations
// without a scheme are treated as file paths.
type MultiSource struct {
	sources map[string]Source
}

// NewMultiSource creates a dispatcher with file and embedded sources registered
func NewMultiSource() *MultiSource {
	m := &MultiSource{sources: make(map[string]Source)}
	m.Register(SchemeFile, FileSource{})
	m.Register(SchemeEmbedded, EmbeddedSource{})
	return m
}

// Register binds a scheme to a source
func (m *MultiSource) Register(scheme string, source Source) {
	m.sources[scheme] = source
}

// Fetch implements Source
func (m *MultiSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	scheme := schemeOf(location)
	source, ok := m.sources[scheme]
	if !ok {
		return nil, fmt.Errorf("no font source registered for scheme %q", scheme)
	}
	return source.Fetch(ctx, location)
}

func schemeOf(location string) string {
	if strings.HasPrefix(location, SchemeEmbedded+":") {
		return SchemeEmbedded
	}
	if i := strings.Index(location, "://"); i > 0 {
		return strings.ToLower(location[:i])
	}
	return SchemeFile
}

// IsS3Location reports whether location names an S3 object
func IsS3Location(location string) bool {
	return schemeOf(location) == SchemeS3
}
