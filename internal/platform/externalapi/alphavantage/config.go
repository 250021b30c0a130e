// Package alphavantage provides a client for the Alpha Vantage time-series API.
package alphavantage

import "time"

// DefaultBaseURL is the production query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// Config holds configuration for the Alpha Vantage API client.
type Config struct {
	APIKey   string         // API key for authentication
	BaseURL  string         // Query endpoint (e.g., "https://www.alphavantage.co/query")
	Timeout  time.Duration  // HTTP request timeout
	Location *time.Location // Time zone the provider reports timestamps in
}
