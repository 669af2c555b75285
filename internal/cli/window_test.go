package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWindow(t *testing.T) {
	now := time.Date(2024, 8, 15, 14, 30, 45, 123, time.FixedZone("EAT", 3*3600))
	wall := time.Date(2024, 8, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name       string
		opts       ImportOptions
		wantAfter  time.Time
		wantBefore time.Time
	}{
		{
			name:       "default is the last hour",
			opts:       ImportOptions{Hours: 1},
			wantAfter:  wall.Add(-time.Hour),
			wantBefore: wall,
		},
		{
			name:       "zero hours still means one hour",
			opts:       ImportOptions{},
			wantAfter:  wall.Add(-time.Hour),
			wantBefore: wall,
		},
		{
			name:       "hours",
			opts:       ImportOptions{Hours: 6},
			wantAfter:  wall.Add(-6 * time.Hour),
			wantBefore: wall,
		},
		{
			name:       "days win over hours",
			opts:       ImportOptions{Days: 3, Hours: 6},
			wantAfter:  time.Date(2024, 8, 12, 14, 30, 45, 0, time.UTC),
			wantBefore: wall,
		},
		{
			name:       "explicit bounds",
			opts:       ImportOptions{After: "2024-01-01", Before: "2024-01-31T23:59:59", Days: 3},
			wantAfter:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantBefore: time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:       "only one explicit bound falls back to relative",
			opts:       ImportOptions{After: "2024-01-01", Hours: 2},
			wantAfter:  wall.Add(-2 * time.Hour),
			wantBefore: wall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ResolveWindow(&tt.opts, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAfter, w.After)
			assert.Equal(t, tt.wantBefore, w.Before)
		})
	}
}

func TestResolveWindowErrors(t *testing.T) {
	now := time.Now()

	_, err := ResolveWindow(&ImportOptions{After: "yesterday", Before: "2024-01-01"}, now)
	assert.ErrorContains(t, err, "--after")

	_, err = ResolveWindow(&ImportOptions{After: "2024-01-01", Before: "soon"}, now)
	assert.ErrorContains(t, err, "--before")

	_, err = ResolveWindow(&ImportOptions{After: "2024-02-01", Before: "2024-01-01"}, now)
	assert.Error(t, err)
}

func TestImportCommandFlags(t *testing.T) {
	root := NewRootCmd()

	cmd, _, err := root.Find([]string{"customers"})
	require.NoError(t, err)
	assert.Equal(t, "customers", cmd.Name())

	require.NoError(t, cmd.ParseFlags([]string{"--id", "12", "-s", "desc", "--sync", "-H", "4"}))
	id, _ := cmd.Flags().GetInt("id")
	sort, _ := cmd.Flags().GetString("sort")
	sync, _ := cmd.Flags().GetBool("sync")
	hours, _ := cmd.Flags().GetInt("hours")
	days, _ := cmd.Flags().GetInt("days")
	assert.Equal(t, 12, id)
	assert.Equal(t, "desc", sort)
	assert.True(t, sync)
	assert.Equal(t, 4, hours)
	assert.Equal(t, 0, days)

	_, _, err = root.Find([]string{"orders"})
	require.NoError(t, err)
}
