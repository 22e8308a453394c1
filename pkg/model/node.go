// Package model defines the stakeholder records placed on the matrix.
package model

import (
	"fmt"
	"strings"
)

// Placeholder is shown in place of an empty optional field.
const Placeholder = "—"

// Level is an ordinal position on either matrix axis.
type Level string

const (
	LevelLow    Level = "Bajo"
	LevelMedium Level = "Medio"
	LevelHigh   Level = "Alto"
)

// Levels returns the axis domain in ascending order.
func Levels() []Level {
	return []Level{LevelLow, LevelMedium, LevelHigh}
}

// IsValid reports whether l is one of the three known levels.
func (l Level) IsValid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	default:
		return false
	}
}

// Index returns the ordinal position of l (0 for Bajo) or -1 if unknown.
func (l Level) Index() int {
	switch l {
	case LevelLow:
		return 0
	case LevelMedium:
		return 1
	case LevelHigh:
		return 2
	default:
		return -1
	}
}

// ParseLevel normalizes a raw level string. The canonical Spanish labels and
// their English equivalents are accepted in any case.
func ParseLevel(raw string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bajo", "low":
		return LevelLow, nil
	case "medio", "medium", "mid":
		return LevelMedium, nil
	case "alto", "high":
		return LevelHigh, nil
	default:
		return "", fmt.Errorf("unknown level %q (want Bajo, Medio or Alto)", raw)
	}
}

// Node is one stakeholder as read from the input file.
type Node struct {
	ID        string `json:"id"`
	Group     string `json:"group"`
	Interest  Level  `json:"interest"`
	Influence Level  `json:"influence"`
	Role      string `json:"rol,omitempty"`
	Strategy  string `json:"estrategia,omitempty"`
}

// RoleOrPlaceholder returns the role, or Placeholder when it is blank.
func (n Node) RoleOrPlaceholder() string {
	return orPlaceholder(n.Role)
}

// StrategyOrPlaceholder returns the strategy, or Placeholder when it is blank.
func (n Node) StrategyOrPlaceholder() string {
	return orPlaceholder(n.Strategy)
}

// Validate checks the required fields.
func (n Node) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return fmt.Errorf("node id cannot be empty")
	}
	if !n.Interest.IsValid() {
		return fmt.Errorf("node %q: invalid interest %q", n.ID, n.Interest)
	}
	if !n.Influence.IsValid() {
		return fmt.Errorf("node %q: invalid influence %q", n.ID, n.Influence)
	}
	return nil
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}
