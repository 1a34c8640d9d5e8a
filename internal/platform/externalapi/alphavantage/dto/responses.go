// Package dto defines data transfer objects for the Alpha Vantage API responses.
package dto

// Notice carries the keys Alpha Vantage uses instead of data when a call is
// rejected. A 200 response may contain only one of these.
type Notice struct {
	ErrorMessage string `json:"Error Message,omitempty"` // unknown symbol or malformed call
	Note         string `json:"Note,omitempty"`          // per-minute quota exceeded
	Information  string `json:"Information,omitempty"`   // daily quota, premium endpoint, or bad key
}

// DailyAdjustedBar is one entry of the "Time Series (Daily)" object.
type DailyAdjustedBar struct {
	Open          string `json:"1. open"`
	High          string `json:"2. high"`
	Low           string `json:"3. low"`
	Close         string `json:"4. close"`
	AdjustedClose string `json:"5. adjusted close"`
	Volume        string `json:"6. volume"`
}

// TimeSeriesDailyAdjustedResponse represents the JSON response of
// function=TIME_SERIES_DAILY_ADJUSTED.
type TimeSeriesDailyAdjustedResponse struct {
	Notice
	MetaData   map[string]string           `json:"Meta Data"`
	TimeSeries map[string]DailyAdjustedBar `json:"Time Series (Daily)"`
}
