// Package contract estimates next-contract salaries for players nearing free agency.
package contract

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidBrackets is returned for a bracket table that cannot be used.
var ErrInvalidBrackets = errors.New("invalid salary brackets")

// Brackets maps an overall rating and current salary to a raise.
type Brackets struct {
	// OverallBounds are ascending upper bounds; tier i covers overall < OverallBounds[i].
	OverallBounds []float64 `yaml:"overall_bounds"`
	Tiers         []Tier    `yaml:"tiers"`
}

// Tier is one overall band.
type Tier struct {
	// SalaryBounds are ascending upper bounds in millions.
	SalaryBounds []float64 `yaml:"salary_bounds"`
	// Raises are percentages, one more than SalaryBounds.
	Raises []float64 `yaml:"raises"`
}

// LoadBrackets reads and validates a YAML bracket file.
func LoadBrackets(path string) (*Brackets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read brackets: %w", err)
	}

	var b Brackets
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse brackets %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &b, nil
}

// Validate checks the table shape.
func (b *Brackets) Validate() error {
	if len(b.Tiers) != len(b.OverallBounds)+1 {
		return fmt.Errorf("%w: %d overall bounds need %d tiers, got %d",
			ErrInvalidBrackets, len(b.OverallBounds), len(b.OverallBounds)+1, len(b.Tiers))
	}
	for i, t := range b.Tiers {
		if len(t.Raises) != len(t.SalaryBounds)+1 {
			return fmt.Errorf("%w: tier %d has %d salary bounds and %d raises",
				ErrInvalidBrackets, i, len(t.SalaryBounds), len(t.Raises))
		}
	}
	return nil
}

// Salary applies the bracket raise to initial.
func (b *Brackets) Salary(initial, overall float64) float64 {
	tier := b.Tiers[bracketIndex(b.OverallBounds, 1, overall)]
	raise := tier.Raises[bracketIndex(tier.SalaryBounds, 1e6, initial)]
	return initial * (1 + raise/100)
}

func bracketIndex(bounds []float64, scale, v float64) int {
	for i, bound := range bounds {
		if v < bound*scale {
			return i
		}
	}
	return len(bounds)
}
