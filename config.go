package reggie

import (
	"time"

	"go.uber.org/zap"

	"github.com/kolkov/reggie/engine"
)

// Config holds configuration options for parsing and matching.
type Config struct {
	// Filename is recorded in error positions (optional).
	Filename string

	// MaxDepth caps group nesting (default: 500).
	// Deeper patterns fail instead of growing the stack.
	MaxDepth int

	// Logger receives debug output from the builder and the engines.
	// If nil, nothing is logged.
	Logger *zap.Logger

	// Dialect selects the matching backend (default: engine.Auto).
	Dialect engine.Dialect

	// MatchTimeout bounds one backtracking match (default: 2s).
	MatchTimeout time.Duration
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.MaxDepth <= 0 {
		c.MaxDepth = 500
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.MatchTimeout <= 0 {
		c.MatchTimeout = engine.DefaultMatchTimeout
	}
}
