// Package alphavantage provides a client for the Alpha Vantage stock market API.
package alphavantage

import "time"

const (
	// DefaultBaseURL is the Alpha Vantage query endpoint.
	DefaultBaseURL = "https://www.alphavantage.co/query"
	// DefaultTimeout bounds each outbound request.
	DefaultTimeout = 10 * time.Second
	// DefaultCallsPerMinute matches the free-tier quota.
	DefaultCallsPerMinute = 5
)

// Config holds configuration for the Alpha Vantage API client.
type Config struct {
	APIKey         string        // API key for authentication
	BaseURL        string        // Query endpoint (e.g., "https://www.alphavantage.co/query")
	Timeout        time.Duration // HTTP request timeout
	CallsPerMinute int           // Outbound call budget; 0 disables limiting
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
