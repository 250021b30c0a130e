// Package dto defines data transfer objects for the Alpha Vantage API responses.
package dto

// TimeSeriesRecord represents one entry of a "Time Series (...)" object.
type TimeSeriesRecord struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// ProviderMessage holds the top-level fields Alpha Vantage uses instead of a
// time series when a call is rejected.
type ProviderMessage struct {
	ErrorMessage string `json:"Error Message,omitempty"`
	Note         string `json:"Note,omitempty"`
	Information  string `json:"Information,omitempty"`
}

// Text returns the first non-empty message.
func (m ProviderMessage) Text() string {
	switch {
	case m.ErrorMessage != "":
		return m.ErrorMessage
	case m.Note != "":
		return m.Note
	default:
		return m.Information
	}
}
