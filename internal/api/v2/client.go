// Package v2 implements api.Client for the v2 backend. It shares transport
// and error mapping with the rest client, and understands the v2 response
// envelope:
//
//	{"data": ..., "meta": {...}}
//	{"errors": [{"title": "...", "detail": "..."}]}
package v2

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/api/rest"
	"github.com/tidwall/gjson"
)

const VersionPath = "/v2"

// Client talks to a v2 backend.
type Client struct {
	rest *rest.Client
}

var _ api.Client = (*Client)(nil)

// NewClient creates a v2 client. The base url gets a /v2 suffix unless it
// already carries one.
func NewClient(cfg api.Config) (*Client, error) {

	baseURL, err := api.NormalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(baseURL, VersionPath) {
		baseURL = baseURL + VersionPath
	}

	cfg.BaseURL = baseURL

	restClient, err := rest.NewClientWithOptions(cfg, rest.Options{
		TransformSuccess: unwrapEnvelope,
		ErrorMessage:     errorMessage,
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"baseUrl": restClient.BaseURL(),
	}).Debugln("Created v2 API client")

	return &Client{
		rest: restClient,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.rest.BaseURL()
}

func (c *Client) Timeout() time.Duration {
	return c.rest.Timeout()
}

func (c *Client) Get(ctx context.Context, path string, opts api.RequestOptions) api.Result {
	return c.rest.Get(ctx, path, opts)
}

func (c *Client) Post(ctx context.Context, path string, opts api.RequestOptions) api.Result {
	return c.rest.Post(ctx, path, opts)
}

func (c *Client) Put(ctx context.Context, path string, opts api.RequestOptions) api.Result {
	return c.rest.Put(ctx, path, opts)
}

func (c *Client) Patch(ctx context.Context, path string, opts api.RequestOptions) api.Result {
	return c.rest.Patch(ctx, path, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts api.RequestOptions) api.Result {
	return c.rest.Delete(ctx, path, opts)
}

func (c *Client) Do(ctx context.Context, method string, path string, opts api.RequestOptions) api.Result {
	return c.rest.Do(ctx, method, path, opts)
}

// unwrapEnvelope returns the data member of an enveloped response. Bodies
// without an envelope are returned untouched.
func unwrapEnvelope(data any, body []byte) any {

	if !gjson.ValidBytes(body) {
		return data
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return data
	}

	envelope := parsed.Get("data")
	if !envelope.Exists() || !(parsed.Get("meta").Exists() || len(parsed.Map()) == 1) {
		return data
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return data
	}

	return obj["data"]
}

// errorMessage reads the first entry of a v2 errors array.
func errorMessage(body []byte) (string, bool) {

	if !gjson.ValidBytes(body) {
		return "", false
	}

	for _, path := range []string{"errors.0.detail", "errors.0.title", "errors.0.message"} {
		value := gjson.GetBytes(body, path)
		if value.Type == gjson.String && len(strings.TrimSpace(value.Str)) > 0 {
			return strings.TrimSpace(value.Str), true
		}
	}

	return "", false
}
