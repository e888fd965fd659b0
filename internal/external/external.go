package external

import (
	"errors"
	"net/http"
	"time"

	"github.com/kjannette/pulse-backend/internal/httputil"
)

var (
	// ErrNoData means the provider answered but had nothing usable.
	ErrNoData = errors.New("provider returned no data")
	// ErrNotConfigured means a required API key is missing.
	ErrNotConfigured = errors.New("provider not configured")
)

// Options configure a provider client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Retry   httputil.RetryConfig
}

func (o Options) client() *http.Client {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func (o Options) baseURL(fallback string) string {
	if o.BaseURL != "" {
		return o.BaseURL
	}
	return fallback
}
