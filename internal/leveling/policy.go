package leveling

import (
	"fmt"

	"github.com/abhisek/lectio/internal/config"
)

const (
	DefaultHighThreshold = 0.8
	DefaultLowThreshold  = 0.5
	DefaultMinSamples    = 10
)

// Policy holds the thresholds of the adaptive difficulty rule.
type Policy struct {
	// HighThreshold is the accuracy at or above which the level goes up.
	HighThreshold float64

	// LowThreshold is the accuracy below which the level goes down.
	LowThreshold float64

	// MinLevel and MaxLevel bound the level scale (inclusive).
	MinLevel Level
	MaxLevel Level

	// MinSamples is the number of answered questions required before the
	// level may change. It is also the size of the accuracy window.
	// Zero disables the rule and uses every result given.
	MinSamples int
}

// DefaultPolicy returns the standard policy over levels 1..5.
func DefaultPolicy() Policy {
	return Policy{
		HighThreshold: DefaultHighThreshold,
		LowThreshold:  DefaultLowThreshold,
		MinLevel:      LevelBeginner,
		MaxLevel:      LevelAdvanced,
		MinSamples:    DefaultMinSamples,
	}
}

// PolicyFromEnv returns DefaultPolicy with LECTIO_LEVEL_* overrides applied.
func PolicyFromEnv() Policy {
	p := DefaultPolicy()
	p.HighThreshold = config.EnvFloat("LECTIO_LEVEL_HIGH", p.HighThreshold)
	p.LowThreshold = config.EnvFloat("LECTIO_LEVEL_LOW", p.LowThreshold)
	p.MinSamples = config.EnvInt("LECTIO_LEVEL_MIN_SAMPLES", p.MinSamples)
	return p
}

// Validate checks the policy is internally consistent.
func (p Policy) Validate() error {
	if p.MinLevel > p.MaxLevel {
		return fmt.Errorf("min level %d is above max level %d", p.MinLevel, p.MaxLevel)
	}
	if p.LowThreshold < 0 || p.HighThreshold > 1 {
		return fmt.Errorf("thresholds must be within [0, 1]")
	}
	if p.LowThreshold > p.HighThreshold {
		return fmt.Errorf("low threshold %.2f is above high threshold %.2f", p.LowThreshold, p.HighThreshold)
	}
	if p.MinSamples < 0 {
		return fmt.Errorf("min samples must not be negative")
	}
	return nil
}

// Clamp limits l to the policy's level range.
func (p Policy) Clamp(l Level) Level {
	if l < p.MinLevel {
		return p.MinLevel
	}
	if l > p.MaxLevel {
		return p.MaxLevel
	}
	return l
}

// Adjust maps the current level and an accuracy ratio to the next level:
// one step up at or above HighThreshold, one step down below LowThreshold,
// otherwise unchanged. The result stays within [MinLevel, MaxLevel].
func (p Policy) Adjust(current Level, ratio float64) Level {
	current = p.Clamp(current)
	switch {
	case ratio >= p.HighThreshold && current < p.MaxLevel:
		return current + 1
	case ratio < p.LowThreshold && current > p.MinLevel:
		return current - 1
	default:
		return current
	}
}
