package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrainlab/terrain-mcp/internal/geoproc"
)

func TestBuildParams(t *testing.T) {
	tests := []struct {
		name       string
		flags      []string
		paramsJSON string
		want       geoproc.Params
		wantErr    bool
	}{
		{
			name:  "no parameters",
			flags: nil,
			want:  geoproc.Params{},
		},
		{
			name:  "typed flag values",
			flags: []string{"dem_path=/data/dem.tif", "z_factor=2", "fill_sinks=true"},
			want: geoproc.Params{
				"dem_path":   "/data/dem.tif",
				"z_factor":   float64(2),
				"fill_sinks": true,
			},
		},
		{
			name:       "json object",
			paramsJSON: `{"dem_path":"/data/dem.tif","bands":[1,2]}`,
			want: geoproc.Params{
				"dem_path": "/data/dem.tif",
				"bands":    []any{float64(1), float64(2)},
			},
		},
		{
			name:       "flag overrides json",
			flags:      []string{"dem_path=/data/other.tif"},
			paramsJSON: `{"dem_path":"/data/dem.tif"}`,
			want:       geoproc.Params{"dem_path": "/data/other.tif"},
		},
		{
			name:       "value containing equals sign",
			flags:      []string{"expression=elev=100"},
			want:       geoproc.Params{"expression": "elev=100"},
		},
		{
			name:    "malformed flag",
			flags:   []string{"dem_path"},
			wantErr: true,
		},
		{
			name:       "malformed json",
			paramsJSON: `{not json`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildParams(tt.flags, tt.paramsJSON)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
