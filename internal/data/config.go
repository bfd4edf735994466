package data

import (
	"time"

	"djp.chapter42.de/jobsproxy/internal/auth"
)

type ProxyConfig struct {
	Port            string          `mapstructure:"port"`
	Debug           bool            `mapstructure:"debug"`
	SheetDBURL      string          `mapstructure:"sheetdb_api_url"`
	UpstreamTimeout time.Duration   `mapstructure:"upstream_timeout"`
	Auth            auth.AuthConfig `mapstructure:"auth"`
	CORS            CORSConfig      `mapstructure:"cors"`

	// Authentication provider for SheetDB, nil when no auth is configured
	AuthProvider auth.AuthProvider
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}
