package cleanup

import (
	"time"

	"github.com/AtRiskMedia/landingkit/pkg/config"
)

// Config holds cleanup worker configuration, sourced from the central config package.
type Config struct {
	CleanupInterval  time.Duration
	VerboseReporting bool
	SessionIdleTTL   time.Duration
}

// NewConfig creates a new cleanup configuration by reading values
// from the already-initialized variables in the centralized /pkg/config package.
func NewConfig() *Config {
	return &Config{
		CleanupInterval:  config.SessionCleanupInterval,
		VerboseReporting: config.CleanupVerbose,
		SessionIdleTTL:   config.SessionIdleTTL,
	}
}
