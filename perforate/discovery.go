package perforate

import (
	"github.com/nickng/loopperf/loop"
	"github.com/nickng/loopperf/manifest"
	"github.com/nickng/loopperf/ssa"
	"github.com/pkg/errors"
	gossa "golang.org/x/tools/go/ssa"
)

var ErrFinalized = errors.New("discovery already finalized")

// Discovery records every eligible loop in a manifest with no rate assigned.
// It does not modify the IR.
type Discovery struct {
	cfg       Config
	found     *manifest.Manifest
	count     int
	finalized bool

	*Logger
}

// NewDiscovery returns a new Discovery writing its manifest to cfg.InfoFile.
func NewDiscovery(cfg Config, logger *Logger) *Discovery {
	return &Discovery{
		cfg:    cfg,
		found:  manifest.New(),
		Logger: logger.withModule(discoveryTag()),
	}
}

// EnterFunc logs functions excluded by name.
func (d *Discovery) EnterFunc(fn *gossa.Function) {
	if Excluded(fn, d.cfg.ExcludeMarker) {
		d.Infof("%s Skipping function %s", d.Module(), fn)
	}
}

func (d *Discovery) ExitFunc(fn *gossa.Function) {}

// Order visits outer loops first.
func (d *Discovery) Order() loop.Order { return loop.PreOrder }

// VisitLoop records l if it is eligible. It always returns false.
func (d *Discovery) VisitLoop(l *loop.Loop) bool {
	v := Classify(l, d.cfg.ExcludeMarker)
	if !v.Eligible {
		if errors.Cause(v.Reason) != ErrExcluded {
			d.Debugf("%s Loop %s not perforable: %v", d.Module(), l, v.Reason)
		}
		return false
	}
	fn := l.Function()
	id := IdentityOf(l).String()
	d.found.Insert(ssa.ModuleName(fn), ssa.FuncName(fn), id)
	d.count++
	d.Debugf("%s Found %s in %s: %s", d.Module(), l, fn, id)
	return false
}

// Count returns the number of eligible loops recorded.
func (d *Discovery) Count() int { return d.count }

// Manifest returns the manifest of eligible loops.
func (d *Discovery) Manifest() *manifest.Manifest { return d.found }

// Finalize writes the manifest to the configured file, overwriting it.
// It can only be called once.
func (d *Discovery) Finalize() error {
	if d.finalized {
		return ErrFinalized
	}
	d.finalized = true
	if err := d.found.Store(d.cfg.InfoFile); err != nil {
		return err
	}
	d.Infof("%s Wrote %d loop(s) to %s", d.Module(), d.count, d.cfg.InfoFile)
	return nil
}
