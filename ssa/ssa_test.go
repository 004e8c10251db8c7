package ssa_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nickng/loopperf/ssa"
	"github.com/nickng/loopperf/ssa/build"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const src = `package main

type T struct{ n int }

func (t *T) Count() int {
	c := 0
	for i := 0; i < t.n; i++ {
		c++
	}
	return c
}

func main() {
	f := func() {
		for {
		}
	}
	_ = f
}

func helper() {}
`

func buildSrc(t *testing.T, s string) *ssa.Info {
	t.Helper()
	info, err := build.FromReader(strings.NewReader(s)).Default().Build()
	require.NoError(t, err, "SSA build failed")
	return info
}

// This tests function enumeration and naming.
func TestFunctions(t *testing.T) {
	info := buildSrc(t, src)
	pkgs := info.Packages()
	require.Len(t, pkgs, 1)

	var names []string
	for _, fn := range info.Functions(pkgs[0]) {
		names = append(names, ssa.FuncName(fn))
		assert.Equal(t, "main", ssa.ModuleName(fn))
	}
	// Sorted by position: the synthetic package initializer is excluded.
	assert.Equal(t, []string{"(*T).Count", "main", "main$1", "helper"}, names)
}

func TestFindFunc(t *testing.T) {
	info := buildSrc(t, src)

	tests := []struct {
		path string
		want string
	}{
		{"main.helper", "helper"},
		{`"main".main$1`, "main$1"},
		{"(*T).Count", "(*T).Count"},
		{"helper", "helper"},
	}
	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			fn, err := info.FindFunc(test.path)
			require.NoError(t, err)
			assert.Equal(t, test.want, ssa.FuncName(fn))
		})
	}

	_, err := info.FindFunc("main.nothere")
	assert.Equal(t, ssa.ErrFuncNotFound, errors.Cause(err))
}

func TestWriteTo(t *testing.T) {
	info := buildSrc(t, src)
	var buf bytes.Buffer
	n, err := info.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Contains(t, buf.String(), "func (t *T) Count() int:")
	assert.Contains(t, buf.String(), "for.loop")
	assert.NotContains(t, buf.String(), "package initializer")
}

func TestWriteFunc(t *testing.T) {
	info := buildSrc(t, src)
	var buf bytes.Buffer
	_, err := info.WriteFunc(&buf, "main.helper")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "func helper():")
	assert.NotContains(t, buf.String(), "Count")
}
