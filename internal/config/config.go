package config

import (
	"fmt"
	"strings"

	"djp.chapter42.de/jobsproxy/internal/auth"
	"djp.chapter42.de/jobsproxy/internal/data"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DefaultPort   string = "4224"
	EnvSheetDBURL string = "SHEETDB_API_URL"
)

var (
	Config *data.ProxyConfig
	v      *viper.Viper
)

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"port":               "PORT",
	"debug":              "DEBUG",
	"sheetdb_api_url":    EnvSheetDBURL,
	"upstream_timeout":   "SHEETDB_TIMEOUT",
	"auth.type":          "SHEETDB_AUTH_TYPE",
	"auth.username":      "SHEETDB_AUTH_USERNAME",
	"auth.password":      "SHEETDB_AUTH_PASSWORD",
	"auth.token":         "SHEETDB_AUTH_TOKEN",
	"auth.client_id":     "SHEETDB_AUTH_CLIENT_ID",
	"auth.client_secret": "SHEETDB_AUTH_CLIENT_SECRET",
	"auth.token_url":     "SHEETDB_AUTH_TOKEN_URL",
	"auth.refresh_token": "SHEETDB_AUTH_REFRESH_TOKEN",
	"cors.allow_origins": "CORS_ALLOW_ORIGINS",
}

func InitConfig(logger *zap.Logger) error {
	nv := viper.New()
	nv.SetDefault("port", DefaultPort)
	nv.SetDefault("debug", false)
	nv.SetDefault("upstream_timeout", "0s")
	nv.SetDefault("auth.type", "none")
	nv.SetDefault("cors.allow_origins", []string{})
	nv.SetConfigName("jobsproxy.cfg")
	nv.SetConfigType("yaml")
	nv.AddConfigPath("/app/config")
	nv.AddConfigPath(".")

	for key, env := range envBindings {
		if err := nv.BindEnv(key, env); err != nil {
			return fmt.Errorf("binding %s to %s: %w", key, env, err)
		}
	}

	err := nv.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Debug("Config file not found, using environment and defaults")
		} else {
			logger.Error("Error while reading the config file:", zap.Error(err))
		}
	}

	cfg := &data.ProxyConfig{}
	if err := nv.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	provider, err := auth.BuildAuthProvider(cfg.Auth)
	if err != nil {
		return fmt.Errorf("building auth provider: %w", err)
	}
	cfg.AuthProvider = provider

	if strings.TrimSpace(cfg.SheetDBURL) == "" {
		logger.Warn(EnvSheetDBURL + " is not set, every request will fail until it is")
	}

	v = nv
	Config = cfg
	return nil
}

// UpstreamURL resolves the SheetDB endpoint at call time, so the value is
// read fresh for every request.
func UpstreamURL() string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v.GetString("sheetdb_api_url"))
}
