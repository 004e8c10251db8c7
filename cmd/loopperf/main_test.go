package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nickng/loopperf/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllGoFiles(t *testing.T) {
	assert.True(t, allGoFiles([]string{"a.go", "b.go"}))
	assert.False(t, allGoFiles([]string{"a.go", "./..."}))
	assert.False(t, allGoFiles(nil))
}

func TestDiscoverPerforate(t *testing.T) {
	dir := t.TempDir()
	infoPath := filepath.Join(dir, "info.json")
	ratesPath := filepath.Join(dir, "rates.json")
	outPath := filepath.Join(dir, "out.ssa")

	rootCmd.SetArgs([]string{"discover", "--no-color", "--info", infoPath, "testdata/sum.go"})
	require.NoError(t, rootCmd.Execute())
	found, err := manifest.Load(infoPath)
	require.NoError(t, err)
	ids := found.Identities("main", "sum_to_n")
	require.Len(t, ids, 1)

	found.SetRate("main", "sum_to_n", ids[0], 4)
	require.NoError(t, found.Store(ratesPath))

	rootCmd.SetArgs([]string{"perforate", "--rates", ratesPath, "--out", outPath, "testdata/sum.go"})
	require.NoError(t, rootCmd.Execute())
	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "+ 4:int"), "step should be replaced:\n%s", b)
	assert.False(t, strings.Contains(string(b), "+ 1:int"))
}

func TestSSAFunc(t *testing.T) {
	t.Cleanup(func() { ssaFunc, ssaOut = "", "" })
	for _, path := range []string{`"main".sum_to_n`, "main.sum_to_n", "sum_to_n"} {
		t.Run(path, func(t *testing.T) {
			outPath := filepath.Join(t.TempDir(), "func.ssa")
			rootCmd.SetArgs([]string{"ssa", "--func", path, "--out", outPath, "testdata/sum.go"})
			require.NoError(t, rootCmd.Execute())
			b, err := os.ReadFile(outPath)
			require.NoError(t, err)
			assert.Contains(t, string(b), "# Name: main.sum_to_n\n")
			assert.NotContains(t, string(b), "# Name: main.main\n")
		})
	}
}
