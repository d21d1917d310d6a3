package roster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cap-ledger/internal/domain"
)

const sampleRoster = `"sh","pl","st","ch","po","hi","sk","en","pe","fa","le","str","pot","con","gre","fi","click","team","byear","bday","bmonth","salary","years","rights","name_first","name_last","id"
70,71,72,60,61,62,81,82,50,50,50,50,80,85,60,75,0,1,1995,10,3,1500000,2,1,"Sam","Van Dyke",0
40,40,40,40,40,40,40,40,40,40,40,40,40,40,40,40,0,31,2003,1,6,100000,1,1,"Lee","Young",1
`

func TestParseCSV(t *testing.T) {
	members, err := ParseCSV(context.Background(), strings.NewReader(sampleRoster))
	require.NoError(t, err)
	require.Len(t, members, 2)

	m := members[0]
	assert.Equal(t, 0, m.ID)
	assert.Equal(t, 1, m.Team)
	assert.Equal(t, int64(1_500_000), m.Salary)
	assert.Equal(t, 2, m.Years)
	assert.Equal(t, 1995, m.BirthYear)
	assert.Equal(t, 3, m.BirthMonth)
	assert.Equal(t, 10, m.BirthDay)
	assert.Equal(t, "Sam", m.FirstName)
	assert.Equal(t, "Van Dyke", m.LastName)
	assert.Equal(t, 75, m.Ratings[domain.RatingFI])
	assert.Equal(t, 70, m.Ratings[domain.RatingSH])
	assert.Equal(t, 81, m.Ratings[domain.RatingSK])
	assert.Equal(t, 50, m.Ratings[domain.RatingSTR])
	assert.Equal(t, 85, m.Consistency)

	assert.Equal(t, 31, members[1].Team)
}

func TestParseCSV_RowIndexIDs(t *testing.T) {
	input := "team,salary,years,byear,bday,bmonth,rights,name_first,name_last\n" +
		"1,500000,1,1990,1,1,1,A,B\n" +
		"2,600000,1,1990,1,1,2,C,D\n"

	members, err := ParseCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, 0, members[0].ID)
	assert.Equal(t, 1, members[1].ID)
}

func TestParseCSV_EmptyIDCellKeepsRowIndex(t *testing.T) {
	input := "id,team,salary,years,byear,bday,bmonth,rights,name_first,name_last\n" +
		"7,1,500000,1,1990,1,1,1,A,B\n" +
		",2,600000,1,1990,1,1,2,C,D\n" +
		"9,3,700000,1,1990,1,1,3,E,F\n"

	members, err := ParseCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, 7, members[0].ID)
	assert.Equal(t, 1, members[1].ID)
	assert.Equal(t, 9, members[2].ID)
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := ParseCSV(context.Background(), strings.NewReader("team,salary\n1,2\n"))
	assert.True(t, errors.Is(err, ErrMalformedRoster))

	input := "team,salary,years,byear,bday,bmonth,rights,name_first,name_last\n" +
		"1,lots,1,1990,1,1,1,A,B\n"
	_, err = ParseCSV(context.Background(), strings.NewReader(input))
	assert.True(t, errors.Is(err, ErrMalformedRoster))
	assert.Contains(t, err.Error(), "row 1")
}

func TestCSVProvider_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleRoster), 0o644))

	members, err := NewCSVProvider(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = NewCSVProvider(filepath.Join(t.TempDir(), "missing.csv")).Load(context.Background())
	assert.Error(t, err)
}

func TestStatic_LoadCopies(t *testing.T) {
	src := Static{{ID: 1, Salary: 100}}
	got, err := src.Load(context.Background())
	require.NoError(t, err)

	got[0].Salary = 999
	assert.Equal(t, int64(100), src[0].Salary)
}
