package build

import (
	"go/ast"
	gobuild "go/build"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/nickng/loopperf/ssa"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/packages"
	gossa "golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

var ErrMixedPackages = errors.New("files belong to more than one package")

// fileReader is a wrapper for source code which can be read as files.
type fileReader interface {
	Sources() ([]source, error)
}

type Configurer interface {
	Builder
	Default() Configurer
	WithMode(mode gossa.BuilderMode) Configurer
	WithBuildLog(l io.Writer, flags int) Configurer
	WithArch(goarch string) Configurer
}

// Config represents a build configuration.
type Config struct {
	mode gossa.BuilderMode
	arch string // Target GOARCH.

	bldLog    io.Writer // Build log.
	bldLFlags int       // Build log flags.

	src interface{} // src points to the program source.
}

func newConfig(src interface{}) *Config {
	return &Config{
		bldLog:    ioutil.Discard,
		bldLFlags: log.LstdFlags,
		arch:      gobuild.Default.GOARCH,
		src:       src,
	}
}

// WithBuildLog adds build log to config.
func (c *Config) WithBuildLog(l io.Writer, flags int) Configurer {
	c.bldLog = l
	c.bldLFlags = flags
	return c
}

// WithArch sets the target architecture, which decides the size of int, uint
// and uintptr.
func (c *Config) WithArch(goarch string) Configurer {
	c.arch = goarch
	return c
}

func (c *Config) sizes() types.Sizes {
	if sizes := types.SizesFor("gc", c.arch); sizes != nil {
		return sizes
	}
	return types.SizesFor("gc", "amd64")
}

// WithMode sets the SSA builder mode.
func (c *Config) WithMode(mode gossa.BuilderMode) Configurer {
	c.mode = mode
	return c
}

func (c *Config) Build() (*ssa.Info, error) {
	bldLog := log.New(c.bldLog, "ssabuild: ", c.bldLFlags)

	var (
		info *ssa.Info
		err  error
	)
	switch src := c.src.(type) {
	case *PkgSrc:
		info, err = c.buildPackages(src, bldLog)
	case fileReader:
		info, err = c.buildFiles(src, bldLog)
	default:
		return nil, errors.Errorf("unknown source type %T", src)
	}
	if err != nil {
		return nil, err
	}
	if len(info.Pkgs) == 0 {
		return nil, ssa.ErrNoPackages
	}
	info.BldLog = c.bldLog
	return info, nil
}

// buildFiles parses, type checks and builds files as a single package.
func (c *Config) buildFiles(src fileReader, bldLog *log.Logger) (*ssa.Info, error) {
	srcs, err := src.Sources()
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var files []*ast.File
	for _, s := range srcs {
		f, err := parser.ParseFile(fset, s.name, s.content, parser.ParseComments)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", s.name)
		}
		if len(files) > 0 && files[0].Name.Name != f.Name.Name {
			return nil, errors.Wrapf(ErrMixedPackages, "%s (package %s)", s.name, f.Name.Name)
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, ssa.ErrNoPackages
	}
	name := files[0].Name.Name
	tc := &types.Config{
		Importer: importer.ForCompiler(fset, "source", nil),
		Sizes:    c.sizes(),
	}
	pkg, _, err := ssautil.BuildPackage(tc, fset, types.NewPackage(name, name), files, c.mode)
	if err != nil {
		return nil, errors.Wrap(err, "failed to type check")
	}
	bldLog.Printf("Package %s loaded and type checked (%d files)", name, len(files))

	return &ssa.Info{
		FSet:  fset,
		Prog:  pkg.Prog,
		Pkgs:  []*gossa.Package{pkg},
		Sizes: tc.Sizes,
	}, nil
}

// buildPackages loads package patterns with go/packages and builds them.
func (c *Config) buildPackages(src *PkgSrc, bldLog *log.Logger) (*ssa.Info, error) {
	cfg := &packages.Config{
		Mode:  packages.LoadAllSyntax,
		Dir:   src.Dir,
		Env:   append(os.Environ(), "GOARCH="+c.arch),
		Tests: false,
	}
	pkgs, err := packages.Load(cfg, src.Patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}
	var loadErr error
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			if loadErr == nil {
				loadErr = errors.Wrapf(e, "package %s", p.PkgPath)
			}
		}
	})
	if loadErr != nil {
		return nil, loadErr
	}
	bldLog.Printf("%d package(s) loaded and type checked", len(pkgs))

	prog, ssaPkgs := ssautil.AllPackages(pkgs, c.mode)
	prog.Build()

	var initial []*gossa.Package
	for _, p := range ssaPkgs {
		if p != nil {
			initial = append(initial, p)
		}
	}
	sizes := c.sizes()
	if len(pkgs) > 0 && pkgs[0].TypesSizes != nil {
		sizes = pkgs[0].TypesSizes
	}
	return &ssa.Info{
		FSet:  prog.Fset,
		Prog:  prog,
		Pkgs:  initial,
		Sizes: sizes,
	}, nil
}

// Default returns a default configuration for loop analysis.
func (c *Config) Default() Configurer {
	return c.WithMode(gossa.InstantiateGenerics)
}
