package roster

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/ledger"
)

// LoadOverrides reads a per-team table such as penalties or LTIR relief.
// Line i starts with team i's code followed by any number of amounts, which
// are summed. An empty path yields zeros for every team.
func LoadOverrides(path string, league domain.League) ([]int64, error) {
	out := make([]int64, league.NumTeams())
	if path == "" {
		return out, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open overrides: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for i := range out {
		code := league.Code(i)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			return nil, &ledger.IntegrityError{
				Team:   code,
				File:   path,
				Reason: fmt.Sprintf("missing line %d for team %s", i+1, code),
			}
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != code {
			got := ""
			if len(fields) > 0 {
				got = fields[0]
			}
			return nil, &ledger.IntegrityError{
				Team:   code,
				File:   path,
				Reason: fmt.Sprintf("team %q != team[%d]=%s", got, i, code),
			}
		}

		var total float64
		for _, s := range fields[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				break
			}
			total += v
		}
		out[i] = int64(total)
	}

	return out, nil
}
