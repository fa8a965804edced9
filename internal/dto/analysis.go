package dto

import (
	"encoding/json"
	"strings"
)

// AIChatRequest asks a question about one ticker. Message is accepted as an alias of Question.
type AIChatRequest struct {
	Ticker   string            `json:"ticker"`
	Question string            `json:"question"`
	Message  string            `json:"message"`
	History  []json.RawMessage `json:"history"`
}

// Text returns the question, falling back to Message.
func (r AIChatRequest) Text() string {
	if q := strings.TrimSpace(r.Question); q != "" {
		return q
	}
	return strings.TrimSpace(r.Message)
}

// AICompareRequest asks a question across several tickers.
type AICompareRequest struct {
	Tickers  []string `json:"tickers"`
	Question string   `json:"question"`
}

// AIChatResponse carries the model answer and any parsed projections (null otherwise).
type AIChatResponse struct {
	Response    string          `json:"response"`
	Projections json.RawMessage `json:"projections"`
}

// AICompareResponse carries the model answer for a comparison.
type AICompareResponse struct {
	Response string   `json:"response"`
	Tickers  []string `json:"tickers"`
}
