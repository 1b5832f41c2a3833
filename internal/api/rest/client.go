// Package rest implements api.Client over plain REST/JSON endpoints.
//
// A client is configured once with an explicit base url and reused across
// requests:
//
//	client, err := rest.NewClient(api.Config{
//		BaseURL: "https://api.example.com",
//		Timeout: 30 * time.Second,
//	})
//
//	switch r := client.Get(ctx, "/concepts", api.RequestOptions{
//		Params: map[string]string{"q": "BRCA1"},
//	}).(type) {
//	case api.Success:
//		// r.Data
//	case api.Failure:
//		// r.Error.Kind, r.Error.Message
//	}
package rest

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/interpolate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options customise how a client interprets response bodies. They let other
// client versions reuse this transport and error mapping.
type Options struct {
	// TransformSuccess rewrites decoded 2xx bodies before they are returned.
	TransformSuccess func(data any, body []byte) any
	// ErrorMessage is tried before the jq expression on error bodies.
	ErrorMessage func(body []byte) (string, bool)
	// Transport replaces the underlying round tripper (tests, proxies).
	Transport http.RoundTripper
}

// Client is safe for concurrent use. Nothing on it changes after
// construction.
type Client struct {
	baseURL      string
	timeout      time.Duration
	headers      map[string]string
	errorMessage *interpolate.Expression
	options      Options
	resty        *resty.Client
}

var _ api.Client = (*Client)(nil)

// NewClient creates a client for cfg. It fails when the base url is empty or
// invalid, or when the error message expression does not compile.
func NewClient(cfg api.Config) (*Client, error) {
	return NewClientWithOptions(cfg, Options{})
}

// NewClientWithOptions is NewClient with response hooks.
func NewClientWithOptions(cfg api.Config, opts Options) (*Client, error) {

	baseURL, err := api.NormalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = api.DefaultTimeout
	}

	messageExpr := cfg.ErrorMessageExpr
	if len(strings.TrimSpace(messageExpr)) == 0 {
		messageExpr = api.DefaultErrorMessageExpr
	}

	errorMessage, err := interpolate.Compile(messageExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid error message expression: %w", err)
	}

	headers := api.MergeHeaders(api.DefaultHeaders(), cfg.Headers)
	if len(cfg.UserAgent) > 0 {
		headers["User-Agent"] = cfg.UserAgent
	}

	restyClient := resty.New().
		SetTimeout(timeout).
		SetLogger(logrus.StandardLogger()).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	if opts.Transport != nil {
		restyClient.SetTransport(opts.Transport)
	}

	logrus.WithFields(logrus.Fields{
		"baseUrl": baseURL,
		"timeout": timeout,
	}).Debugln("Created API client")

	return &Client{
		baseURL:      baseURL,
		timeout:      timeout,
		headers:      headers,
		errorMessage: errorMessage,
		options:      opts,
		resty:        restyClient,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

func (c *Client) Get(ctx context.Context, path string, opts api.RequestOptions) api.Result {
	return c.Do(ctx, http.MethodGet, path, opts)
}

func (c *Client) Post(ctx context.Context, path string, opts api.RequestOptions) api.Result {
	return c.Do(ctx, http.MethodPost, path, opts)
}

func (c *Client) Put(ctx context.Context, path string, opts api.RequestOptions) api.Result {
	return c.Do(ctx, http.MethodPut, path, opts)
}

func (c *Client) Patch(ctx context.Context, path string, opts api.RequestOptions) api.Result {
	return c.Do(ctx, http.MethodPatch, path, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts api.RequestOptions) api.Result {
	return c.Do(ctx, http.MethodDelete, path, opts)
}

// Do issues the request and maps every outcome onto an api.Result. It never
// panics and never returns nil.
func (c *Client) Do(ctx context.Context, method string, path string, opts api.RequestOptions) (result api.Result) {

	method = strings.ToUpper(strings.TrimSpace(method))
	finalUrl := c.baseURL + api.NormalizePath(path)
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"method": method,
				"url":    finalUrl,
				"panic":  r,
			}).Errorln("Recovered from panic during API request")
			result = api.NewFailure(api.ErrorKindUnknown, 0, fmt.Sprintf("Unexpected error: %v", r))
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	request, err := c.buildRequest(ctx, method, opts)
	if err != nil {
		return c.logFailure(method, finalUrl, started, api.NewFailure(api.ErrorKindUnknown, 0, err.Error()))
	}

	resp, err := request.Execute(method, finalUrl)
	if err != nil {
		return c.logFailure(method, finalUrl, started, mapTransportError(err))
	}

	result = c.mapResponse(resp)

	if failure, ok := result.(api.Failure); ok {
		return c.logFailure(method, finalUrl, started, failure)
	}

	logrus.WithFields(logrus.Fields{
		"method":   method,
		"url":      finalUrl,
		"status":   resp.StatusCode(),
		"duration": time.Since(started),
	}).Debugln("API request completed")

	return result
}

func (c *Client) buildRequest(ctx context.Context, method string, opts api.RequestOptions) (*resty.Request, error) {

	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// A fresh map per call, the client defaults are never mutated
	headers := api.MergeHeaders(c.headers, opts.Headers)

	restBuilder := c.resty.R().
		SetContext(ctx).
		SetHeaders(headers)

	if len(opts.Params) > 0 {
		restBuilder.SetQueryParams(opts.Params)
	}

	if len(opts.Query) > 0 {
		restBuilder.SetQueryParamsFromValues(opts.Query)
	}

	if len(opts.AccessToken) > 0 {
		restBuilder.SetAuthToken(opts.AccessToken)
	}

	if len(opts.APIKey) > 0 {
		restBuilder.SetHeader("X-API-Key", opts.APIKey)
	}

	if opts.Body != nil && method != http.MethodGet {
		restBuilder.SetBody(opts.Body)
	}

	return restBuilder, nil
}

func (c *Client) mapResponse(resp *resty.Response) api.Result {

	statusCode := resp.StatusCode()
	body := resp.Body()

	if statusCode < 200 || statusCode > 299 {
		return api.NewFailure(api.ErrorKindHttpError, statusCode, c.extractErrorMessage(resp))
	}

	var data any
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			failure := api.NewFailure(api.ErrorKindDecodeError, 0, "Failed to decode response body")
			failure.Error.Details = fmt.Sprintf("status %d: %v", statusCode, err)
			return failure
		}
	}

	if c.options.TransformSuccess != nil {
		data = c.options.TransformSuccess(data, body)
	}

	return api.Success{
		Data:       data,
		StatusCode: statusCode,
	}
}

// extractErrorMessage pulls a human readable message out of an error body,
// falling back to the status line.
func (c *Client) extractErrorMessage(resp *resty.Response) string {

	body := resp.Body()

	if c.options.ErrorMessage != nil {
		if message, ok := c.options.ErrorMessage(body); ok {
			return message
		}
	}

	var errorData any
	if err := json.Unmarshal(body, &errorData); err == nil {
		if message, ok := c.errorMessage.FirstString(errorData); ok {
			return message
		}
	}

	statusCode := resp.StatusCode()
	return fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode))
}

func (c *Client) logFailure(method string, finalUrl string, started time.Time, failure api.Failure) api.Failure {
	logrus.WithFields(logrus.Fields{
		"method":   method,
		"url":      finalUrl,
		"kind":     failure.Error.Kind,
		"status":   failure.Error.StatusCode,
		"duration": time.Since(started),
	}).Warnln("API request failed:", failure.Error.Message)
	return failure
}

// mapTransportError classifies an error returned before a response was
// received.
func mapTransportError(err error) api.Failure {

	if isTimeout(err) {
		failure := api.NewFailure(api.ErrorKindTimeout, 0, "Request timeout")
		failure.Error.Details = err.Error()
		return failure
	}

	if errors.Is(err, context.Canceled) {
		failure := api.NewFailure(api.ErrorKindUnknown, 0, "Request cancelled")
		failure.Error.Details = err.Error()
		return failure
	}

	if isConnectionError(err) {
		failure := api.NewFailure(api.ErrorKindConnectionError, 0, fmt.Sprintf("Network error: %v", err))
		failure.Error.Details = err.Error()
		return failure
	}

	failure := api.NewFailure(api.ErrorKindUnknown, 0, fmt.Sprintf("Unexpected error: %v", err))
	failure.Error.Details = err.Error()
	return failure
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionError(err error) bool {
	var (
		opErr       *net.OpError
		dnsErr      *net.DNSError
		certErr     *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		recordErr   tls.RecordHeaderError
	)

	switch {
	case errors.As(err, &opErr),
		errors.As(err, &dnsErr),
		errors.As(err, &certErr),
		errors.As(err, &unknownAuth),
		errors.As(err, &hostnameErr),
		errors.As(err, &recordErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}

	// Bad request urls and redirect limits are reported as *url.Error too
	// but are not network failures.
	return false
}
