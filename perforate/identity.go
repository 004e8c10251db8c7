package perforate

import (
	"strconv"
	"strings"

	"github.com/nickng/loopperf/loop"
)

// BlockTag describes one block of a loop for its Identity.
type BlockTag struct {
	Index   int
	Comment string // Empty if the block has no comment.
	Header  bool
	Latch   bool
	Exiting bool
}

func (t BlockTag) String() string {
	var sb strings.Builder
	sb.WriteString("%")
	sb.WriteString(strconv.Itoa(t.Index))
	if t.Comment != "" {
		sb.WriteString(".")
		sb.WriteString(t.Comment)
	}
	if t.Header {
		sb.WriteString("<header>")
	}
	if t.Latch {
		sb.WriteString("<latch>")
	}
	if t.Exiting {
		sb.WriteString("<exiting>")
	}
	return sb.String()
}

// Identity identifies a loop within its function across independent builds
// of the same source. It lists the blocks of the loop, header first, then the
// remaining blocks in function block order.
type Identity []BlockTag

// IdentityOf returns the Identity of l.
func IdentityOf(l *loop.Loop) Identity {
	id := make(Identity, 0, len(l.Blocks()))
	for _, b := range l.Blocks() {
		id = append(id, BlockTag{
			Index:   b.Index,
			Comment: b.Comment,
			Header:  b == l.Header(),
			Latch:   l.IsLatch(b),
			Exiting: l.IsExiting(b),
		})
	}
	return id
}

// String returns the manifest key of the Identity, e.g.
// %1.for.loop<header><exiting>,%2.for.body<latch>
func (id Identity) String() string {
	tags := make([]string, len(id))
	for i, tag := range id {
		tags[i] = tag.String()
	}
	return strings.Join(tags, ",")
}
