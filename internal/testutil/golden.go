package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UpdateGoldenEnv names the environment variable that rewrites golden files instead of
// comparing against them.
const UpdateGoldenEnv = "TASKDEMO_UPDATE_GOLDEN"

// Golden compares rendered output with testdata/<name>.golden and reports a line diff
// on mismatch. Line endings in the golden file are normalized, so files checked out
// with CRLF still match.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if os.Getenv(UpdateGoldenEnv) != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, got, 0644))
		t.Logf("updated %s", path)
		return
	}

	want, err := os.ReadFile(path)
	require.NoErrorf(t, err, "read golden file (set %s=1 to create it)", UpdateGoldenEnv)

	assert.Equal(t, strings.ReplaceAll(string(want), "\r\n", "\n"), string(got), "output mismatch for %s", name)
}
