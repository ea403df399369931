package leveling

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a student's ordinal difficulty tier. Higher is harder.
type Level int

const (
	LevelBeginner Level = iota + 1
	LevelElementary
	LevelIntermediate
	LevelUpperIntermediate
	LevelAdvanced
)

var labels = map[Level]string{
	LevelBeginner:          "beginner",
	LevelElementary:        "elementary",
	LevelIntermediate:      "intermediate",
	LevelUpperIntermediate: "upper-intermediate",
	LevelAdvanced:          "advanced",
}

// Label returns the human-readable name used in prompts and progress rows.
func (l Level) Label() string {
	if s, ok := labels[l]; ok {
		return s
	}
	return "level " + strconv.Itoa(int(l))
}

func (l Level) String() string {
	return fmt.Sprintf("%d (%s)", int(l), l.Label())
}

// ParseLevel accepts a number ("3") or a label ("intermediate").
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return Level(n), nil
	}
	for l, label := range labels {
		if label == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", s)
}
