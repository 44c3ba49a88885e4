package commands

import (
	"bytes"
	"testing"

	"github.com/pdrpinto/hpastar/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		want    world.Location
		wantErr bool
	}{
		{in: "0:1,2", want: world.Location{Grid: 0, Point: world.Point{X: 1, Y: 2}}},
		{in: "3:-4, -5", want: world.Location{Grid: 3, Point: world.Point{X: -4, Y: -5}}},
		{in: "1,2", wantErr: true},
		{in: "0:1", wantErr: true},
		{in: "a:1,2", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLocation(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBakeCommand(t *testing.T) {
	out, err := run(t, "bake", "--scene", "../testdata/house.yaml", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "ISLAND")
	assert.Contains(t, out, "grids=2 links=1")
	assert.Contains(t, out, "nodes=5 edges=6 furniture=1")
	assert.Contains(t, out, "nodes=1 edges=0 furniture=0")
}

func TestRouteCommandUsesSceneQuery(t *testing.T) {
	out, err := run(t, "route", "--scene", "../testdata/house.yaml", "--log-level", "error", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "ROUTE")
	assert.Contains(t, out, "[0 1]")
	assert.Contains(t, out, "(-4,0)")
	assert.Contains(t, out, "(3,2)")
}

func TestRouteCommandRejectsOneLocation(t *testing.T) {
	_, err := run(t, "route", "--scene", "../testdata/house.yaml", "0:1,1")
	assert.Error(t, err)
}

func TestMissingScene(t *testing.T) {
	_, err := run(t, "bake", "--scene", "")
	assert.ErrorContains(t, err, "no scene")
}
