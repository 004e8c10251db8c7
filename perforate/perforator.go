package perforate

import (
	gobuild "go/build"
	"go/constant"
	"go/token"
	"go/types"
	"sort"

	"github.com/nickng/loopperf/loop"
	"github.com/nickng/loopperf/manifest"
	"github.com/nickng/loopperf/ssa"
	"github.com/pkg/errors"
	gossa "golang.org/x/tools/go/ssa"
)

var ErrRateOutOfRange = errors.New("rate cannot be represented by the step type")

// Status is the outcome of perforating a loop.
type Status int

const (
	Unchanged Status = iota // No rate for the loop.
	Modified                // Step replaced by the rate.
	Skipped                 // Rate assigned but the loop cannot be perforated.
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Modified:
		return "modified"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// Result is the outcome of Perforate.
type Result struct {
	Status Status
	Step   int64 // New step, if Modified.
	Reason error // Why the loop was Skipped.
}

// Key locates a loop entry in a manifest.
type Key struct {
	Module   string
	Function string
	Identity string
}

func (k Key) String() string {
	return k.Module + ": " + k.Function + ": " + k.Identity
}

// Perforator replaces the step of loops assigned a rate in a manifest.
type Perforator struct {
	cfg      Config
	rates    *manifest.Manifest
	matched  map[Key]bool
	modified int
	sizes    types.Sizes // Sizes of int, uint and uintptr for the target.

	*Logger
}

// NewPerforator returns a new Perforator using the rates in m.
func NewPerforator(cfg Config, m *manifest.Manifest, logger *Logger) *Perforator {
	if m == nil {
		m = manifest.New()
	}
	return &Perforator{
		cfg:     cfg,
		rates:   m,
		matched: make(map[Key]bool),
		sizes:   types.SizesFor("gc", gobuild.Default.GOARCH),
		Logger:  logger.withModule(perforatorTag()),
	}
}

// SetSizes sets the type sizes of the analysed program's target.
func (p *Perforator) SetSizes(sizes types.Sizes) {
	if sizes != nil {
		p.sizes = sizes
	}
}

// EnterFunc logs functions excluded by name.
func (p *Perforator) EnterFunc(fn *gossa.Function) {
	if Excluded(fn, p.cfg.ExcludeMarker) {
		p.Infof("%s Skipping function %s", p.Module(), fn)
	}
}

func (p *Perforator) ExitFunc(fn *gossa.Function) {}

// Order visits inner loops first.
func (p *Perforator) Order() loop.Order { return loop.PostOrder }

// VisitLoop perforates l, and returns true if l was modified.
func (p *Perforator) VisitLoop(l *loop.Loop) bool {
	return p.Perforate(l).Status == Modified
}

// Perforate looks up the rate of l and replaces the step of its induction
// variable with it. The loop is re-classified against the current IR before
// modification, and skipped if it is no longer eligible.
func (p *Perforator) Perforate(l *loop.Loop) Result {
	fn := l.Function()
	key := Key{Module: ssa.ModuleName(fn), Function: ssa.FuncName(fn), Identity: IdentityOf(l).String()}
	entry, ok := p.rates.Lookup(key.Module, key.Function, key.Identity)
	if !ok {
		return Result{Status: Unchanged}
	}
	p.matched[key] = true
	if !entry.HasRate() {
		p.Debugf("%s No rate for %s in %s", p.Module(), l, fn)
		return Result{Status: Unchanged}
	}
	rate := *entry.Rate

	v := Classify(l, p.cfg.ExcludeMarker)
	if !v.Eligible {
		p.Warnf("%s Skip %s in %s: %v", p.Module(), l, fn, v.Reason)
		return Result{Status: Skipped, Reason: v.Reason}
	}
	if rate < 1 {
		p.Warnf("%s Rate %d for %s in %s is not positive", p.Module(), rate, l, fn)
	}
	c, err := rateConst(rate, v.Step.Type(), p.sizes)
	if err != nil {
		p.Warnf("%s Skip %s in %s: %v", p.Module(), l, fn, err)
		return Result{Status: Skipped, Reason: err}
	}

	p.Infof("%s Changing [%s] to [%s]!", p.Module(), stepString(v.Step), c.String())
	v.inc.ReplaceStep(c)
	p.modified++
	return Result{Status: Modified, Step: rate}
}

// Count returns the number of loops modified so far.
func (p *Perforator) Count() int { return p.modified }

// Unmatched returns the manifest entries which no visited loop matched,
// sorted.
func (p *Perforator) Unmatched() []Key {
	var keys []Key
	for _, mod := range p.rates.Modules() {
		for _, fn := range p.rates.Functions(mod) {
			for _, id := range p.rates.Identities(mod, fn) {
				if k := (Key{mod, fn, id}); !p.matched[k] {
					keys = append(keys, k)
				}
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// rateConst returns rate as a constant of type t, with sizes of the target.
func rateConst(rate int64, t types.Type, sizes types.Sizes) (*gossa.Const, error) {
	basic, ok := t.Underlying().(*types.Basic)
	if !ok || basic.Info()&types.IsInteger == 0 {
		return nil, errors.Wrapf(ErrRateOutOfRange, "step type %s", t)
	}
	val := constant.MakeInt64(rate)
	bits := 64
	if sizes != nil {
		bits = int(sizes.Sizeof(basic)) * 8
	}
	var lo, hi constant.Value
	if basic.Info()&types.IsUnsigned != 0 {
		lo = constant.MakeInt64(0)
		hi = constant.BinaryOp(constant.Shift(constant.MakeInt64(1), token.SHL, uint(bits)), token.SUB, constant.MakeInt64(1))
	} else {
		lo = constant.UnaryOp(token.SUB, constant.Shift(constant.MakeInt64(1), token.SHL, uint(bits-1)), 0)
		hi = constant.BinaryOp(constant.Shift(constant.MakeInt64(1), token.SHL, uint(bits-1)), token.SUB, constant.MakeInt64(1))
	}
	if constant.Compare(val, token.LSS, lo) || constant.Compare(val, token.GTR, hi) {
		return nil, errors.Wrapf(ErrRateOutOfRange, "%d overflows %s", rate, t)
	}
	return gossa.NewConst(val, t), nil
}

func stepString(v gossa.Value) string {
	if c, ok := v.(*gossa.Const); ok {
		return c.String()
	}
	return v.Name() + ":" + v.Type().String()
}
