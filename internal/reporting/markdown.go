package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *CapReport) string {
	var sb strings.Builder

	sb.WriteString("# Cap Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | League date: %s\n\n", r.RunID, r.LeagueDate))

	sb.WriteString("## Reconciliation\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Logged games checked | %d |\n", r.Reconciliation.CheckedGames))
	sb.WriteString(fmt.Sprintf("| Mismatches | %d |\n", r.Reconciliation.Mismatches))
	sb.WriteString(fmt.Sprintf("| Entries appended | %d |\n", r.Reconciliation.Appended))
	sb.WriteString(fmt.Sprintf("| Out-of-order games | %d |\n", r.Reconciliation.OutOfOrder))
	sb.WriteString("\n")

	sb.WriteString("## Projections\n\n")
	if len(r.Rows) == 0 {
		sb.WriteString("No projections.\n")
		return sb.String()
	}

	sb.WriteString("| Team | GP | Today | To Date | Projected | Over Cap | Contracts | Cap Space |\n")
	sb.WriteString("|------|----|-------|---------|-----------|----------|-----------|-----------|\n")
	var over []string
	for _, p := range r.Rows {
		flag := "N"
		if p.OverCap {
			flag = "Y"
			over = append(over, p.Team)
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %.0f | %.0f | %.0f | %s | %d | %.0f |\n",
			p.Team, p.GamesPlayed, p.Today, p.ToDate, p.Projected, flag, p.Contracts, p.Headroom))
	}
	sb.WriteString("\n")

	if len(over) > 0 {
		sb.WriteString(fmt.Sprintf("**Projected over the cap:** %s\n", strings.Join(over, ", ")))
	} else {
		sb.WriteString("**No team projected over the cap.**\n")
	}

	return sb.String()
}
