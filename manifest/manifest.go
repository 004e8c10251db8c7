// Package manifest reads and writes the rate manifest exchanged between loop
// discovery and loop perforation.
//
// The manifest is a JSON object nested three levels deep:
//
//	module (package path) → function → loop identity → entry
//
// An entry is either an empty object, written by discovery to mark a loop as
// perforable, or an integer, the step which replaces the original step of the
// loop's induction variable.
package manifest

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"
)

var ErrMalformed = errors.New("malformed rate manifest")

// Entry is the leaf of a Manifest.
type Entry struct {
	Rate *int64 // Rate is nil if no rate has been assigned.
}

// HasRate returns true if a rate is assigned to the entry.
func (e Entry) HasRate() bool { return e.Rate != nil }

// MarshalJSON writes the rate, or {} if there is none.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Rate == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(*e.Rate)
}

// UnmarshalJSON accepts an empty object or null as a placeholder, and an
// integral number as a rate.
func (e *Entry) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		e.Rate = nil
		return nil
	case len(b) > 0 && b[0] == '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if len(obj) > 0 {
			return errors.Errorf("expected {} or an integer rate, got %s", b)
		}
		e.Rate = nil
		return nil
	case len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')):
		rate, err := parseRate(json.Number(b))
		if err != nil {
			return err
		}
		e.Rate = &rate
		return nil
	}
	return errors.Errorf("expected {} or an integer rate, got %s", b)
}

// parseRate parses n as an int64, also accepting floats with no fraction.
func parseRate(n json.Number) (int64, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, errors.Wrapf(err, "invalid rate %s", n)
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errors.Errorf("rate %s is not an integer", n)
	}
	return int64(f), nil
}

// Manifest is a nested mapping of module → function → loop identity → Entry.
type Manifest struct {
	mods map[string]map[string]map[string]Entry
}

// New returns an empty Manifest.
func New() *Manifest {
	return &Manifest{mods: make(map[string]map[string]map[string]Entry)}
}

func (m *Manifest) loops(mod, fn string) map[string]Entry {
	fns, ok := m.mods[mod]
	if !ok {
		fns = make(map[string]map[string]Entry)
		m.mods[mod] = fns
	}
	loops, ok := fns[fn]
	if !ok {
		loops = make(map[string]Entry)
		fns[fn] = loops
	}
	return loops
}

// Insert adds a placeholder entry (no rate) for a loop.
func (m *Manifest) Insert(mod, fn, id string) {
	m.loops(mod, fn)[id] = Entry{}
}

// SetRate sets the rate of a loop.
func (m *Manifest) SetRate(mod, fn, id string, rate int64) {
	m.loops(mod, fn)[id] = Entry{Rate: &rate}
}

// Lookup returns the entry of a loop, and whether the module, function and
// loop are all present.
func (m *Manifest) Lookup(mod, fn, id string) (Entry, bool) {
	e, ok := m.mods[mod][fn][id]
	return e, ok
}

// Len returns the number of loop entries.
func (m *Manifest) Len() int {
	n := 0
	for _, fns := range m.mods {
		for _, loops := range fns {
			n += len(loops)
		}
	}
	return n
}

// Empty returns true if the manifest has no module at all.
func (m *Manifest) Empty() bool { return len(m.mods) == 0 }

// Modules returns the modules of the manifest, sorted.
func (m *Manifest) Modules() []string { return sortedKeys(m.mods) }

// Functions returns the functions of a module, sorted.
func (m *Manifest) Functions(mod string) []string { return sortedKeys(m.mods[mod]) }

// Identities returns the loop identities of a function, sorted.
func (m *Manifest) Identities(mod, fn string) []string { return sortedKeys(m.mods[mod][fn]) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Parse reads a Manifest from r.
// Errors are wrapped ErrMalformed.
func Parse(r io.Reader) (*Manifest, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read rate manifest")
	}
	m := New()
	if err := json.Unmarshal(b, &m.mods); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	if m.mods == nil { // Top-level null.
		m.mods = make(map[string]map[string]map[string]Entry)
	}
	return m, nil
}

// Load reads the Manifest at path.
// A missing file is not an error and gives an empty Manifest.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open rate manifest %s", path)
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return m, nil
}

// WriteTo writes the Manifest to w as JSON indented by 4 spaces, with keys
// sorted and a trailing newline.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // Identities contain <header> etc.
	enc.SetIndent("", "    ")
	if err := enc.Encode(m.mods); err != nil {
		return 0, errors.Wrap(err, "failed to encode rate manifest")
	}
	return buf.WriteTo(w)
}

// Store writes the Manifest to path, replacing any existing file.
func (m *Manifest) Store(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}
