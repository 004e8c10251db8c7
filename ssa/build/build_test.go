package build_test

import (
	"bytes"
	"go/types"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/nickng/loopperf/ssa/build"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	loopProg = `
	package main
	func main() {
		for i := 0; i < 10; i++ {
			println(i)
		}
	}`
	emptyProg = `package main; func main() {}`

	testdir string
)

func init() {
	testdir, _ = os.Getwd() // Save the dir where the test files are, for the runnable examples.
}

// Test loading from files.
func TestBuildFromFiles(t *testing.T) {
	files := []string{"testdata/main.go", "testdata/foo.go", "testdata/bar.go"}
	info, err := build.FromFiles(files).Default().Build()
	require.NoError(t, err, "SSA build failed")
	require.Len(t, info.Pkgs, 1)

	main := info.Pkgs[0]
	for _, name := range []string{"main", "foo", "bar"} {
		assert.NotNil(t, main.Func(name), "cannot find main.%s()", name)
	}
}

func TestBuildFromFilesMissing(t *testing.T) {
	_, err := build.FromFiles([]string{"testdata/missing.go"}).Build()
	assert.Error(t, err)
}

func TestBuildMixedPackages(t *testing.T) {
	tmp := t.TempDir() + "/other.go"
	b, err := os.ReadFile("testdata/other.go.txt")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(tmp, b, 0o644))

	_, err = build.FromFiles([]string{"testdata/main.go", tmp}).Build()
	assert.Equal(t, build.ErrMixedPackages, errors.Cause(err))
}

// Test loading from string/reader.
func TestBuildFromReader(t *testing.T) {
	info, err := build.FromReader(strings.NewReader(loopProg)).Default().Build()
	require.NoError(t, err, "SSA build failed")
	require.Len(t, info.Pkgs, 1)
	assert.Equal(t, "main", info.Pkgs[0].Pkg.Path())
	assert.NotNil(t, info.Pkgs[0].Func("main"))
}

func TestBuildSyntaxError(t *testing.T) {
	_, err := build.FromReader(strings.NewReader("package main; func main() {")).Build()
	assert.Error(t, err)
}

func TestBuildTypeError(t *testing.T) {
	_, err := build.FromReader(strings.NewReader("package main; func main() { x := undefined; _ = x }")).Build()
	assert.Error(t, err)
}

func TestWithBuildLog(t *testing.T) {
	buf := new(bytes.Buffer)
	info, err := build.FromReader(strings.NewReader(emptyProg)).WithBuildLog(buf, log.LstdFlags).Build()
	require.NoError(t, err, "SSA build failed")
	assert.Equal(t, buf, info.BldLog, "Expects build log to propagate to built SSA")
	assert.Contains(t, buf.String(), "loaded and type checked")
}

func TestWithArch(t *testing.T) {
	tests := []struct {
		arch string
		size int64
	}{
		{"386", 4},
		{"amd64", 8},
		{"unknown", 8},
	}
	for _, test := range tests {
		t.Run(test.arch, func(t *testing.T) {
			info, err := build.FromReader(strings.NewReader(emptyProg)).Default().WithArch(test.arch).Build()
			require.NoError(t, err)
			require.NotNil(t, info.Sizes)
			assert.Equal(t, test.size, info.Sizes.Sizeof(types.Typ[types.Int]))
		})
	}
}

func TestBuildDeterministic(t *testing.T) {
	dump := func() string {
		info, err := build.FromReader(strings.NewReader(loopProg)).Default().Build()
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = info.WriteTo(&buf)
		require.NoError(t, err)
		return buf.String()
	}
	assert.Equal(t, dump(), dump())
}

func ExampleFromFiles() {
	os.Chdir(testdir)
	files := []string{"testdata/main.go", "testdata/foo.go", "testdata/bar.go"}
	conf := build.FromFiles(files)
	info, err := conf.Build()
	if err != nil {
		log.Fatalf("SSA build failed: %v", err)
	}
	_ = info // Use info here
	// output:
}

func ExampleFromReader() {
	conf := build.FromReader(strings.NewReader("package main; func main() {}"))
	info, err := conf.Build()
	if err != nil {
		log.Fatalf("SSA build failed: %v", err)
	}
	_ = info.Pkgs // Use info here
	// output:
}
