package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ndsort"
)

func TestRun(t *testing.T) {
	in := strings.NewReader(`# two objectives
0 3
1 1
2 2

3 0
3 3
`)
	var out bytes.Buffer
	require.NoError(t, run(nil, in, &out))
	assert.Equal(t, "0\n0\n1\n0\n2\n", out.String())
}

func TestRunMaxRank(t *testing.T) {
	in := strings.NewReader("0 0 0\n1 1 1\n2 2 2\n3 3 3\n")
	var out bytes.Buffer
	require.NoError(t, run([]string{"-max-rank", "1"}, in, &out))
	assert.Equal(t, "0\n1\n2\n2\n", out.String())
}

func TestRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ndsort.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: tree\nmax_rank: 0\nhybrid:\n  kind: quadratic\n"), 0o600))

	in := strings.NewReader("1 2 3\n0 0 0\n")
	var out bytes.Buffer
	require.NoError(t, run([]string{"-config", path}, in, &out))
	assert.Equal(t, "1\n0\n", out.String())
}

func TestRunErrors(t *testing.T) {
	t.Run("BadNumber", func(t *testing.T) {
		err := run(nil, strings.NewReader("1 x\n"), &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 1")
	})

	t.Run("RaggedRows", func(t *testing.T) {
		err := run(nil, strings.NewReader("1 2\n3\n"), &bytes.Buffer{})
		require.ErrorIs(t, err, ndsort.ErrInvalidArgument)
	})

	t.Run("UnknownFlag", func(t *testing.T) {
		err := run([]string{"-threads", "2"}, strings.NewReader(""), &bytes.Buffer{})
		require.Error(t, err)
	})
}

func TestRunEmptyInput(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(nil, strings.NewReader("\n# nothing\n"), &out))
	assert.Empty(t, out.String())
}
