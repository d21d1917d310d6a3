package contract

import "math"

// Curve estimates a qualifying salary from overall rating without brackets.
type Curve struct {
	MinOverall   float64
	MidOverall   float64
	MaxOverall   float64
	MinSalary    float64
	MaxSalary    float64
	QualifyRatio float64 // raise applied to players already paid at or above the curve
	MinLevel     float64 // fraction of the base salary offered to the lowest paid
}

// DefaultCurve returns the standard salary curve.
func DefaultCurve() Curve {
	return Curve{
		MinOverall:   67,
		MidOverall:   75,
		MaxOverall:   87,
		MinSalary:    400_000,
		MaxSalary:    8_000_000,
		QualifyRatio: 1.1,
		MinLevel:     0.7,
	}
}

// Base returns the curve salary for overall. The curve bends upward below
// MidOverall and flattens toward MaxOverall.
func (c Curve) Base(overall float64) float64 {
	overall = min(overall, c.MaxOverall)
	exponent := 1.0
	if overall >= c.MidOverall {
		exponent -= (overall - c.MidOverall) / (c.MaxOverall - c.MidOverall)
	} else {
		exponent += (c.MidOverall - overall) / (c.MidOverall - c.MinOverall)
	}
	frac := (overall - c.MinOverall) / (c.MaxOverall - c.MinOverall)
	return c.MinSalary + math.Pow(frac, exponent)*(c.MaxSalary-c.MinSalary)
}

// Estimate returns the next salary for a player earning current.
func (c Curve) Estimate(current, overall float64) float64 {
	if overall < c.MinOverall {
		return current * c.QualifyRatio
	}

	base := c.Base(overall)
	if current >= base {
		return current * c.QualifyRatio
	}

	scaled := c.MinLevel*base + (c.QualifyRatio-c.MinLevel)*base*((current-c.MinSalary)/(base-c.MinSalary))
	return max(scaled, max(c.MinSalary, current)*c.QualifyRatio)
}
