package nxo

import "sort"

// SegmentKind classifies the purpose of a Segment.
type SegmentKind string

const (
	KindCode  SegmentKind = "CODE"
	KindConst SegmentKind = "CONST"
	KindData  SegmentKind = "DATA"
	KindBSS   SegmentKind = "BSS"
)

// Range is a half-open interval [Start, End) over file or virtual-address
// space.
type Range struct {
	Start uint64
	Size  uint64
}

// End returns the exclusive end of the range.
func (r Range) End() uint64 { return r.Start + r.Size }

// InclusiveEnd returns the last byte covered by the range, as a signed
// offset so an empty range (Size == 0) yields Start-1 rather than
// wrapping around, keeping Overlaps/Includes sound for empty ranges.
func (r Range) InclusiveEnd() int64 { return int64(r.Start) + int64(r.Size) - 1 }

// Overlaps reports whether r and other share at least one byte. It is
// symmetric. Two empty ranges never overlap; an empty range overlaps a
// non-empty one only when its Start lies strictly inside it.
func (r Range) Overlaps(other Range) bool {
	return int64(r.Start) <= other.InclusiveEnd() && int64(other.Start) <= r.InclusiveEnd()
}

// Includes reports whether other lies entirely within r. An empty
// other is included whenever its Start falls within r's bounds.
func (r Range) Includes(other Range) bool {
	return int64(other.Start) >= int64(r.Start) && other.InclusiveEnd() <= r.InclusiveEnd()
}

// Section is a named Range contained within exactly one Segment.
type Section struct {
	Range Range
	Name  string
}

// Segment is a named, typed Range that owns zero or more non-overlapping
// Sections.
type Segment struct {
	Range    Range
	Name     string
	Kind     SegmentKind
	Sections []Section
}

func newSegment(r Range, name string, kind SegmentKind) *Segment {
	return &Segment{Range: r, Name: name, Kind: kind, Sections: nil}
}

func (s *Segment) addSection(sec Section) error {
	for _, existing := range s.Sections {
		if existing.Range.Overlaps(sec.Range) {
			return &Error{Kind: ErrTruncated, Msg: "section " + sec.Name + " overlaps " + existing.Name}
		}
	}
	s.Sections = append(s.Sections, sec)
	return nil
}

// Part is one entry of SegmentBuilder.Flatten's output: a maximal,
// non-overlapping, named, typed byte range.
type Part struct {
	Start uint64
	End   uint64
	Name  string
	Kind  SegmentKind
}

// SegmentBuilder accumulates Segments (added first) and Sections (attached
// later), then flattens them into a sorted, gap-filled Part list.
//
// Segments and Sections live on the builder instance, never at package
// scope: a shared slice default here would leak state across unrelated
// parses.
type SegmentBuilder struct {
	segments []*Segment
}

// NewSegmentBuilder returns an empty, ready-to-use builder.
func NewSegmentBuilder() *SegmentBuilder {
	return &SegmentBuilder{}
}

// AddSegment registers a new segment, which may be empty (a container
// with no .bss, for instance). The segment must not overlap any
// previously added segment.
func (b *SegmentBuilder) AddSegment(start, size uint64, name string, kind SegmentKind) error {
	r := Range{Start: start, Size: size}
	for _, s := range b.segments {
		if r.Overlaps(s.Range) {
			return &Error{Kind: ErrTruncated, Msg: "segment " + name + " overlaps " + s.Name}
		}
	}
	b.segments = append(b.segments, newSegment(r, name, kind))
	return nil
}

// AddSectionEnd adds a section spanning [start, end) to whichever segment
// contains it. A zero-length section (end <= start) is silently ignored,
// matching the "no data here" convention used when a dynamic-table entry
// is simply absent.
func (b *SegmentBuilder) AddSectionEnd(name string, start, end uint64) error {
	if end <= start {
		return nil
	}
	return b.addSection(name, start, end-start)
}

// AddSectionSize adds a section spanning [start, start+size) to whichever
// segment contains it.
func (b *SegmentBuilder) AddSectionSize(name string, start, size uint64) error {
	if size == 0 {
		return nil
	}
	return b.addSection(name, start, size)
}

func (b *SegmentBuilder) addSection(name string, start, size uint64) error {
	r := Range{Start: start, Size: size}
	for _, seg := range b.segments {
		if seg.Range.Includes(r) {
			return seg.addSection(Section{Range: r, Name: name})
		}
	}
	return &Error{Kind: ErrTruncated, Msg: "no containing segment for section " + name}
}

// suffixedName implements the gap-naming convention: the first gap in a
// segment keeps the segment's own name, later gaps get ".N" suffixes.
func suffixedName(name string, suffix int) string {
	if suffix == 0 {
		return name
	}
	out := name + "."
	out += itoa(suffix)
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Flatten produces the sorted, non-overlapping Part list described in
// spec §3/§8: every byte covered by any segment appears in exactly one
// part, with uncovered gaps emitted as "<segment>.N" filler parts.
func (b *SegmentBuilder) Flatten() []Part {
	segs := make([]*Segment, len(b.segments))
	copy(segs, b.segments)
	sort.Slice(segs, func(i, j int) bool { return segs[i].Range.Start < segs[j].Range.Start })

	var parts []Part
	for _, seg := range segs {
		sections := make([]Section, len(seg.Sections))
		copy(sections, seg.Sections)
		sort.Slice(sections, func(i, j int) bool { return sections[i].Range.Start < sections[j].Range.Start })

		suffix := 0
		pos := seg.Range.Start
		for _, sec := range sections {
			if pos < sec.Range.Start {
				parts = append(parts, Part{Start: pos, End: sec.Range.Start, Name: suffixedName(seg.Name, suffix), Kind: seg.Kind})
				suffix++
				pos = sec.Range.Start
			}
			parts = append(parts, Part{Start: sec.Range.Start, End: sec.Range.End(), Name: sec.Name, Kind: seg.Kind})
			pos = sec.Range.End()
		}
		if pos < seg.Range.End() {
			parts = append(parts, Part{Start: pos, End: seg.Range.End(), Name: suffixedName(seg.Name, suffix), Kind: seg.Kind})
		}
	}
	return parts
}
