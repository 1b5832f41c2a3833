package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout          = 30 * time.Second
	// Indexing a string errors in gojq even on the left of //, so each
	// branch filters by type first.
	DefaultErrorMessageExpr = `objects | .message // (.error | objects | .message) // (.error | strings) // .detail`
)

var (
	ErrEmptyBaseURL   = errors.New("base_url is required")
	ErrInvalidBaseURL = errors.New("base_url must be an absolute http(s) url")
)

// Client is implemented by every API client version so callers can be
// migrated from one version to another without code changes.
type Client interface {
	BaseURL() string
	Timeout() time.Duration

	Get(ctx context.Context, path string, opts RequestOptions) Result
	Post(ctx context.Context, path string, opts RequestOptions) Result
	Put(ctx context.Context, path string, opts RequestOptions) Result
	Patch(ctx context.Context, path string, opts RequestOptions) Result
	Delete(ctx context.Context, path string, opts RequestOptions) Result
	Do(ctx context.Context, method string, path string, opts RequestOptions) Result
}

// Config is the immutable configuration of a client.
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	Headers          map[string]string
	ErrorMessageExpr string // jq expression applied to error bodies
	UserAgent        string
}

// RequestOptions are the per-call inputs shared by every verb.
type RequestOptions struct {
	Params      map[string]string // single valued query parameters
	Query       url.Values        // repeated query parameters
	Body        any               // JSON encoded request body
	AccessToken string            // sent as a bearer token
	APIKey      string            // sent as X-API-Key
	Headers     map[string]string // override the client defaults
}

// DefaultHeaders returns a fresh copy of the headers every request carries.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
}

// NormalizeBaseURL validates and trims a base url.
func NormalizeBaseURL(baseURL string) (string, error) {
	baseURL = strings.TrimSpace(baseURL)
	if len(baseURL) == 0 {
		return "", ErrEmptyBaseURL
	}

	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil || len(u.Scheme) == 0 || len(u.Host) == 0 {
		return "", ErrInvalidBaseURL
	}

	if !strings.EqualFold(u.Scheme, "http") && !strings.EqualFold(u.Scheme, "https") {
		return "", ErrInvalidBaseURL
	}

	return baseURL, nil
}

// NormalizePath makes sure the path starts with a single slash.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) == 0 {
		return "/"
	}
	return "/" + strings.TrimLeft(path, "/")
}

// MergeHeaders layers the given maps into a new map, later maps win. Keys
// are canonicalised so "content-type" overrides "Content-Type".
func MergeHeaders(layers ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			merged[http.CanonicalHeaderKey(k)] = v
		}
	}
	return merged
}
