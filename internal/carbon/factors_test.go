package carbon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFactorFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadFactorsOverlaysDefaults(t *testing.T) {
	path := writeFactorFile(t, "grid_electricity: 0.85\ntransport: 0.21\n")

	factors, err := LoadFactors(path)
	require.NoError(t, err)
	require.Equal(t, 0.85, factors.GridElectricity)
	require.Equal(t, 0.21, factors.Transport)
	// Untouched fields keep canonical defaults.
	require.Equal(t, 2.68, factors.DieselFuel)
	require.Equal(t, 0.5, factors.WasteLandfill)
	require.Equal(t, 0.34, factors.WaterSupply)
}

func TestLoadFactorsRejectsNonPositive(t *testing.T) {
	path := writeFactorFile(t, "diesel_fuel: 0\n")

	_, err := LoadFactors(path)
	require.Error(t, err)
}

func TestLoadFactorsMissingFile(t *testing.T) {
	_, err := LoadFactors(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadFactorsMalformedYAML(t *testing.T) {
	path := writeFactorFile(t, "grid_electricity: [not a number\n")

	_, err := LoadFactors(path)
	require.Error(t, err)
}
