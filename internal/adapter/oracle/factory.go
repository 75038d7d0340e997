package oracle

import (
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	// EnvAssistantMode is the environment variable name for mode selection.
	EnvAssistantMode = "ASSISTANT_MODE"
	// ModeMock indicates the scripted oracle should be used.
	ModeMock = "MOCK"
)

// NewOracle creates an oracle based on the ASSISTANT_MODE environment
// variable. ASSISTANT_MODE=MOCK returns the scripted Mock; anything else
// returns a real Client.
func NewOracle(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) Oracle {
	if os.Getenv(EnvAssistantMode) == ModeMock {
		if logger != nil {
			logger.Info("ASSISTANT_MODE=MOCK detected, using scripted oracle")
		}
		return NewMock()
	}
	return NewClient(baseURL, apiKey, model, timeout, logger)
}
