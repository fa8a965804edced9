package domain

import "encoding/json"

// Analysis is an LLM answer. Projections is set only when the model returned a parseable projections object.
type Analysis struct {
	Response    string
	Projections json.RawMessage
	Tickers     []string
}
