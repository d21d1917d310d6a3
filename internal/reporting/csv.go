package reporting

import (
	"fmt"
	"strings"

	"cap-ledger/internal/domain"
)

// RenderCSV renders projections as CSV string.
func RenderCSV(rows []*domain.Projection) string {
	var sb strings.Builder

	// Header
	sb.WriteString("team,team_id,games_played,games_remaining,today,to_date,penalties,ltir,")
	sb.WriteString("projected,over_cap,contracts,max_allowable,headroom\n")

	for _, p := range rows {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%d,%.2f,%.2f,%d,%d,%.2f,%t,%d,%.2f,%.2f\n",
			p.Team,
			p.TeamID,
			p.GamesPlayed,
			p.GamesRemaining,
			p.Today,
			p.ToDate,
			p.Penalties,
			p.LTIR,
			p.Projected,
			p.OverCap,
			p.Contracts,
			p.MaxAllowable,
			p.Headroom,
		))
	}

	return sb.String()
}
