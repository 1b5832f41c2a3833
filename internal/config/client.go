package config

import (
	"fmt"
	"maps"

	"github.com/sirupsen/logrus"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/api/rest"
	v2 "github.com/thand-io/components/internal/api/v2"
	"github.com/thand-io/components/internal/common"
)

// GetAPIConfig converts the api section into a client configuration. A
// configured api key is sent on every request as X-API-Key.
func (c *Config) GetAPIConfig() (api.Config, error) {

	timeout, err := c.API.GetTimeout()
	if err != nil {
		return api.Config{}, err
	}

	headers := make(map[string]string, len(c.API.Headers)+1)
	maps.Copy(headers, c.API.Headers)
	if len(c.API.APIKey) > 0 {
		headers["X-API-Key"] = c.API.APIKey
	}

	userAgent := c.API.UserAgent
	if len(userAgent) == 0 {
		version, _, _ := common.GetModuleBuildInfo()
		userAgent = fmt.Sprintf("components/%s", version)
	}

	return api.Config{
		BaseURL:          c.API.BaseURL,
		Timeout:          timeout,
		Headers:          headers,
		ErrorMessageExpr: c.API.ErrorMessageExpr,
		UserAgent:        userAgent,
	}, nil
}

// NewAPIClient builds the client for the configured api version. It is the
// only place a client is created from configuration; everything else
// receives one.
func (c *Config) NewAPIClient() (api.Client, error) {

	cfg, err := c.GetAPIConfig()
	if err != nil {
		return nil, err
	}

	var client api.Client

	switch version := c.API.GetVersion(); version {
	case APIVersionV1:
		client, err = rest.NewClient(cfg)
	case APIVersionV2:
		client, err = v2.NewClient(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAPIVersion, version)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"version": c.API.GetVersion(),
		"baseUrl": client.BaseURL(),
		"timeout": client.Timeout(),
	}).Debugln("API client configured")

	return client, nil
}
