package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/f1load/internal/schema"
)

func TestValidateHeaders(t *testing.T) {
	tests := []struct {
		name        string
		header      []string
		wantMissing []string
	}{
		{
			name:   "all columns",
			header: []string{"driver_id", "lap", "time", "note"},
		},
		{
			name:   "optional missing",
			header: []string{"driver_id", "lap", "time"},
		},
		{
			name:   "extra columns ignored",
			header: []string{"position", "driver_id", "lap", "time", "gap"},
		},
		{
			name:        "required missing",
			header:      []string{"lap"},
			wantMissing: []string{"driver_id", "time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := ValidateHeaders(tt.header, testLapFile)
			if tt.wantMissing != nil {
				var mc *MissingColumnsError
				require.ErrorAs(t, err, &mc)
				assert.Equal(t, tt.wantMissing, mc.Columns)
				assert.Equal(t, "test_laps.csv", mc.File)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, idx, "driver_id")
		})
	}
}

func TestValidateHeadersAlias(t *testing.T) {
	file := schema.File{
		Name: "results.csv",
		Fields: []schema.Field{
			{Name: "fastest_lap_time", Type: schema.FieldText, Aliases: []string{"fatest_lap_time"}},
		},
	}

	idx, err := ValidateHeaders([]string{"grid", "fatest_lap_time"}, file)
	require.NoError(t, err)
	assert.Equal(t, 1, idx["fastest_lap_time"])
}
