package models

import "strings"

// CORSConfig is shared by the server config and the CORS middleware.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// WithDefaults returns a CORSConfig with default values applied for any unset fields
func (c CORSConfig) WithDefaults() CORSConfig {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{
			"Origin",
			"Content-Length",
			"Content-Type",
			"Authorization",
			"Accept",
			"X-Requested-With",
			"X-Correlation-ID",
		}
	}
	if len(c.ExposeHeaders) == 0 {
		c.ExposeHeaders = []string{"X-Correlation-ID", "Content-Disposition"}
	}
	if c.MaxAge == 0 {
		c.MaxAge = 86400
	}
	return c
}

// HasWildcardOrigins reports whether any origin is "*" or a "*." subdomain
// pattern, which the custom origin matcher handles.
func (c CORSConfig) HasWildcardOrigins() bool {
	for _, origin := range c.AllowedOrigins {
		if strings.Contains(origin, "*") {
			return true
		}
	}
	return false
}
