package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", NewValidationError("Ticker required"), "Ticker required"},
		{"not found", NewNotFoundError("Data not found locally."), "Data not found locally."},
		{"configuration", NewConfigurationError("FIXER_API_KEY"), "FIXER_API_KEY not configured"},
		{"upstream", NewUpstreamError("Alpha Vantage API limit reached"), "Alpha Vantage API limit reached"},
		{"wrapped again", fmt.Errorf("refresh AAPL: %w", NewUpstreamError("AI error: timeout")), "refresh AAPL: upstream provider error: AI error: timeout"},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewAppError(500, "failed to count exchange rates", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to count exchange rates: connection refused", err.Error())
	assert.Equal(t, "bare", NewAppError(400, "bare", nil).Error())
}

func TestSentinels(t *testing.T) {
	assert.ErrorIs(t, NewConfigurationError("GEMINI_API_KEY"), ErrConfiguration)
	assert.ErrorIs(t, NewUpstreamError("x"), ErrUpstream)
	assert.NotErrorIs(t, NewUpstreamError("x"), ErrValidation)
}
