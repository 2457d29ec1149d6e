package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScenarios_Golden runs every scenario under testdata/scenarios and
// compares its snapshot against the matching golden file.
func TestScenarios_Golden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario files found")

	for _, path := range paths {
		sc, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(sc.Name, func(t *testing.T) {
			RunWithGolden(t, sc)
		})
	}
}
