package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterCSV = `id,team,rights,salary,years,byear,bmonth,bday,name_first,name_last
1,1,1,1000000,2,1990,1,1,Ann,Able
2,2,2,900000,1,1995,3,4,Ben,Baker
3,31,1,500000,3,2003,6,7,Cal,Cole
`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root, _ := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&strings.Builder{})
	return root.Execute()
}

func TestRunCommand_FileBackend(t *testing.T) {
	saveDir := t.TempDir()
	capDir := t.TempDir()
	rosterPath := filepath.Join(t.TempDir(), "roster.csv")

	writeFile(t, filepath.Join(saveDir, "league.ehm"), "2023 10 25\n")
	writeFile(t, filepath.Join(saveDir, "schedule.ehm"), "12 10 2023 1 2 0\n2 1\n1 12 2023 2 1 0\n0 0\n")
	writeFile(t, rosterPath, rosterCSV)

	args := []string{"run", "--save-dir", saveDir, "--cap-dir", capDir, "--roster", rosterPath, "--log-level", "error"}
	require.NoError(t, execute(t, args...))

	ana, err := os.ReadFile(filepath.Join(capDir, "ANA.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(ana), "12 10 2023 "))
	assert.Equal(t, 1, strings.Count(string(ana), "\n"))

	_, err = os.Stat(filepath.Join(capDir, "caphits.txt"))
	require.NoError(t, err)

	// A second run only reconciles.
	require.NoError(t, execute(t, args...))
	ana2, err := os.ReadFile(filepath.Join(capDir, "ANA.txt"))
	require.NoError(t, err)
	assert.Equal(t, string(ana), string(ana2))
}

func TestRunCommand_RequiresRoster(t *testing.T) {
	err := execute(t, "run", "--save-dir", t.TempDir(), "--cap-dir", t.TempDir(), "--ledger-backend", "memory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roster")
}

func TestRunCommand_UnknownBackend(t *testing.T) {
	err := execute(t, "run", "--ledger-backend", "sqlite")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ledger backend")
}

func TestSalariesCommand(t *testing.T) {
	dir := t.TempDir()
	rosterPath := filepath.Join(dir, "roster.csv")
	reportPath := filepath.Join(dir, "salaries.txt")
	writeFile(t, filepath.Join(dir, "league.ehm"), "2023 10 25\n")
	writeFile(t, rosterPath, rosterCSV)

	require.NoError(t, execute(t, "salaries", "--save-dir", dir, "--roster", rosterPath, "--salary-report", reportPath, "--log-level", "error"))

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "RFA List:")
}

func TestMigrateCommand_NothingConfigured(t *testing.T) {
	err := execute(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to migrate")
}
