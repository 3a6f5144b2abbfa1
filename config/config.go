// Package config exposes the panel's name, version and the environment driven
// settings (LIQ_*) used by the web server, the logger and the data source.
package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

const (
	defaultPort          = 8501
	defaultSessionMaxAge = 60
	defaultLoginLimit    = 10
)

// LoadEnv loads a .env file from the working directory when one exists.
// Variables already present in the environment win.
func LoadEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("LIQ_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("LIQ_DEBUG") == "true"
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("LIQ_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

func GetListen() string {
	return os.Getenv("LIQ_LISTEN")
}

func GetPort() int {
	return getEnvInt("LIQ_PORT", defaultPort)
}

// GetBasePath returns the URL prefix of every route, always with leading and
// trailing slash.
func GetBasePath() string {
	basePath := os.Getenv("LIQ_BASE_PATH")
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return basePath
}

func GetDomain() string {
	return os.Getenv("LIQ_DOMAIN")
}

func GetCertFile() string {
	return os.Getenv("LIQ_CERT_FILE")
}

func GetKeyFile() string {
	return os.Getenv("LIQ_KEY_FILE")
}

// GetSessionSecret returns the cookie signing key. An empty value means the
// server generates a random one at startup, which invalidates sessions on
// every restart.
func GetSessionSecret() string {
	return os.Getenv("LIQ_SESSION_SECRET")
}

// GetSessionMaxAge returns the session lifetime in minutes.
func GetSessionMaxAge() int {
	return getEnvInt("LIQ_SESSION_MAX_AGE", defaultSessionMaxAge)
}

// GetLoginLimit returns the number of login attempts allowed per client IP
// and minute. Zero disables throttling.
func GetLoginLimit() int {
	return getEnvInt("LIQ_LOGIN_LIMIT", defaultLoginLimit)
}

// GetTrustedProxies returns the comma separated LIQ_TRUSTED_PROXIES entries
// (IPs or CIDRs). Empty means no proxy is trusted and forwarding headers are
// ignored when identifying clients.
func GetTrustedProxies() []string {
	var proxies []string
	for _, p := range strings.Split(os.Getenv("LIQ_TRUSTED_PROXIES"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return val
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if val, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && val > 0 {
			return val
		}
	}
	return def
}
