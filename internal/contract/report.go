package contract

import (
	"fmt"
	"io"
	"strings"

	"cap-ledger/internal/domain"
)

// Grid bounds for the salary table.
const (
	gridMinOverall  = 65
	gridMaxOverall  = 90
	gridOverallStep = 2
	gridMinSalary   = 400_000
	gridMaxSalary   = 9_000_000
	gridSalaryStep  = 400_000
)

// RFA eligibility thresholds.
const (
	rfaYearsLeft  = 1
	rfaMaxAge     = 31
	rfaMinOverall = 65
)

// Estimator writes the salary report.
type Estimator struct {
	Rater    Rater
	Curve    Curve
	Brackets *Brackets // nil uses Curve
	// SalaryFloor raises low salaries before estimating.
	SalaryFloor int64
	// RFADate is the date ages are measured at for the RFA list.
	RFADate domain.Date
}

// Salary estimates the next salary for current at overall.
func (e *Estimator) Salary(current, overall float64) float64 {
	if e.Brackets != nil {
		return e.Brackets.Salary(current, overall)
	}
	return e.Curve.Estimate(current, overall)
}

// IsRFA reports whether m belongs on the restricted free agent list.
func (e *Estimator) IsRFA(m *domain.RosterMember) bool {
	return m.Years == rfaYearsLeft &&
		m.Age(e.RFADate) < rfaMaxAge &&
		e.Rater.Overall(m) > rfaMinOverall
}

// RFAs returns the RFA members in roster order.
func (e *Estimator) RFAs(members []*domain.RosterMember) []*domain.RosterMember {
	var out []*domain.RosterMember
	for _, m := range members {
		if e.IsRFA(m) {
			out = append(out, m)
		}
	}
	return out
}

// WriteReport writes the salary grid followed by the RFA list.
func (e *Estimator) WriteReport(w io.Writer, members []*domain.RosterMember) error {
	var sb strings.Builder

	sb.WriteString("OV\\SAL\t")
	for s := float64(gridMinSalary); s < gridMaxSalary; s += gridSalaryStep {
		sb.WriteString(fmt.Sprintf("%.2f\t", s/1e6))
	}
	sb.WriteString("\n")

	for ov := float64(gridMinOverall); ov <= gridMaxOverall; ov += gridOverallStep {
		sb.WriteString(fmt.Sprintf("%.2f\t", ov))
		for s := float64(gridMinSalary); s < gridMaxSalary; s += gridSalaryStep {
			sb.WriteString(fmt.Sprintf("%.2f\t", e.Salary(s, ov)/1e6))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("RFA List:\n")
	for _, m := range e.RFAs(members) {
		overall := e.Rater.Overall(m)
		current := float64(m.EffectiveSalary(e.SalaryFloor))
		sb.WriteString(fmt.Sprintf("%s, %s\t%.2f\t%.2f\t", m.LastName, m.FirstName, overall, current/1e6))

		if e.Brackets != nil {
			stat := StatBonus(m)
			special := e.Rater.SpecialistBonus(m)
			total := e.Brackets.Salary(current, overall) + stat + special
			sb.WriteString(fmt.Sprintf("%.2f\t%.2f\t%.2f\n", total/1e6, stat/1e6, special/1e6))
		} else {
			sb.WriteString(fmt.Sprintf("%.2f\n", e.Curve.Estimate(current, overall)/1e6))
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write salary report: %w", err)
	}
	return nil
}
