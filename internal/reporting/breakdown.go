package reporting

import (
	"fmt"
	"strings"
)

// RenderBreakdown renders the per-team roster cap listing.
func RenderBreakdown(teams []TeamBreakdown) string {
	var sb strings.Builder

	for _, t := range teams {
		sb.WriteString(t.Team)
		sb.WriteString("\n")
		for _, m := range t.Members {
			sb.WriteString(fmt.Sprintf("%s, %s\t%d\n", m.LastName, m.FirstName, m.CapHit))
		}
		sb.WriteString(fmt.Sprintf("Roster: %d\n", t.Roster))
		sb.WriteString(fmt.Sprintf("Penalties: %d\n", t.Penalties))
		sb.WriteString(fmt.Sprintf("Total: %d vs. final %d\n", t.Roster+t.Penalties, t.Final))
		sb.WriteString(fmt.Sprintf("Contracts: %d\n\n", t.Contracts))
	}

	return sb.String()
}
