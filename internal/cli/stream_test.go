package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamCommand_Batches(t *testing.T) {
	out, err := executeCommand(t, "--format", "json",
		"stream", "testdata/orders.yaml", "--batch-size", "2")
	require.NoError(t, err)

	var result StreamResult
	decodeResponse(t, out, &result)

	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 2, result.BatchCount)
	require.Len(t, result.Batches, 2)
	assert.Len(t, result.Batches[0], 2)
	assert.Len(t, result.Batches[1], 2)
}

func TestStreamCommand_FilteredStream(t *testing.T) {
	out, err := executeCommand(t, "--format", "json",
		"stream", "testdata/orders.yaml",
		"--where", "status == open", "--batch-size", "2")
	require.NoError(t, err)

	var result StreamResult
	decodeResponse(t, out, &result)

	assert.Equal(t, 3, result.TotalRows, "closed row is excluded")
	assert.Equal(t, 2, result.BatchCount)
	assert.Len(t, result.Batches[1], 1, "last batch holds the remainder")
}

func TestStreamCommand_Text(t *testing.T) {
	out, err := executeCommand(t, "stream", "testdata/orders.yaml", "--batch-size", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "batch 1 (3 row(s)):")
	assert.Contains(t, out, "batch 2 (1 row(s)):")
	assert.Contains(t, out, "streamed 4 row(s) in 2 batch(es)")
}

func TestStreamCommand_RejectsNonPositiveBatchSize(t *testing.T) {
	_, err := executeCommand(t, "stream", "testdata/orders.yaml", "--batch-size", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
