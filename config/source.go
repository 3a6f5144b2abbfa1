package config

import (
	"os"
	"time"
)

const (
	// DefaultSpreadsheetKey identifies the settlements spreadsheet.
	DefaultSpreadsheetKey = "1VrcE5I9ZUpdps-t6rDl9cpmQGuFtsdmjlkaLFwG895g"

	RecordsSheet = "Datos"
	UsersSheet   = "Usuarios"

	defaultCacheTTL     = 5 * time.Minute
	defaultFetchTimeout = 20 * time.Second

	// during an outage only one request per window waits for the fetch timeout
	defaultFailureBackoff = 30 * time.Second
)

// SourceConfig holds everything needed to reach the spreadsheet.
// CredentialsJSON and CredentialsFile are secrets and must never be logged.
type SourceConfig struct {
	SpreadsheetKey  string
	RecordsSheet    string
	UsersSheet      string
	CredentialsFile string
	CredentialsJSON string
	CacheTTL        time.Duration
	FetchTimeout    time.Duration
	FailureBackoff  time.Duration
	// RefreshInterval schedules a background reload; 0 disables it and the
	// cache is only refilled by requests.
	RefreshInterval time.Duration
}

// GetSourceConfig builds the source configuration from LIQ_* variables.
func GetSourceConfig() SourceConfig {
	key := os.Getenv("LIQ_SPREADSHEET_KEY")
	if key == "" {
		key = DefaultSpreadsheetKey
	}
	return SourceConfig{
		SpreadsheetKey:  key,
		RecordsSheet:    RecordsSheet,
		UsersSheet:      UsersSheet,
		CredentialsFile: os.Getenv("LIQ_CREDENTIALS_FILE"),
		CredentialsJSON: os.Getenv("LIQ_CREDENTIALS_JSON"),
		CacheTTL:        getEnvDuration("LIQ_CACHE_TTL", defaultCacheTTL),
		FetchTimeout:    getEnvDuration("LIQ_FETCH_TIMEOUT", defaultFetchTimeout),
		FailureBackoff:  getEnvDuration("LIQ_FAILURE_BACKOFF", defaultFailureBackoff),
		RefreshInterval: getEnvDuration("LIQ_REFRESH_INTERVAL", 0),
	}
}

// HasCredentials reports whether any service account credential is configured.
func (c SourceConfig) HasCredentials() bool {
	return c.CredentialsFile != "" || c.CredentialsJSON != ""
}
