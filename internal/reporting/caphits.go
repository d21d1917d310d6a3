package reporting

import (
	"fmt"
	"strings"

	"cap-ledger/internal/domain"
)

// CapHitsHeader is the first line of the fixed-column cap report.
const CapHitsHeader = "TEAM  TEAMID  GP  TODAY     TODATE    PENALTIES LTIR      PROJECTED OVER_CAP CONTR  MAXCAP    CAPSPACE"

// RenderCapHits renders projections as the fixed-column cap report.
// Money columns are truncated to whole units.
func RenderCapHits(rows []*domain.Projection) string {
	var sb strings.Builder

	sb.WriteString(CapHitsHeader)
	sb.WriteString("\n")

	for _, p := range rows {
		over := "N"
		if p.OverCap {
			over = "Y"
		}
		sb.WriteString(fmt.Sprintf("%-6s%-6d%-6d%-10d%-10d%-10d%-10d%-10d  %-6s %-6d %-10d %d\n",
			p.Team,
			p.TeamID,
			p.GamesPlayed,
			int64(p.Today),
			int64(p.ToDate),
			p.Penalties,
			p.LTIR,
			int64(p.Projected),
			over,
			p.Contracts,
			int64(p.MaxAllowable),
			int64(p.Headroom),
		))
	}

	return sb.String()
}
