package nxo

import "testing"

func TestRangeOverlapsSymmetric(t *testing.T) {
	a := Range{Start: 0x10, Size: 0x10}
	b := Range{Start: 0x18, Size: 0x10}
	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Fatalf("expected overlapping ranges to report true both ways")
	}

	c := Range{Start: 0x20, Size: 0x10}
	if a.Overlaps(c) || c.Overlaps(a) {
		t.Fatalf("adjacent ranges must not overlap")
	}
}

func TestRangeIncludes(t *testing.T) {
	outer := Range{Start: 0x1000, Size: 0x100}
	inner := Range{Start: 0x1010, Size: 0x10}
	if !outer.Includes(inner) {
		t.Fatalf("expected outer to include inner")
	}
	if outer.Includes(Range{Start: 0x10F0, Size: 0x20}) {
		t.Fatalf("range extending past outer's end must not be included")
	}
}

func TestSegmentBuilderRejectsOverlappingSegments(t *testing.T) {
	b := NewSegmentBuilder()
	if err := b.AddSegment(0, 0x100, ".text", KindCode); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.AddSegment(0x80, 0x100, ".rodata", KindConst); err == nil {
		t.Fatalf("expected overlap to be rejected")
	}
}

func TestFlattenFillsGapsSortedAndNonOverlapping(t *testing.T) {
	b := NewSegmentBuilder()
	must(t, b.AddSegment(0, 0x100, ".text", KindCode))
	must(t, b.AddSectionEnd(".init", 0x10, 0x20))

	parts := b.Flatten()
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts (gap, section, gap), got %d: %+v", len(parts), parts)
	}
	for i := 1; i < len(parts); i++ {
		if parts[i].Start != parts[i-1].End {
			t.Fatalf("parts must be contiguous: %+v", parts)
		}
	}
	if parts[0].Start != 0 || parts[len(parts)-1].End != 0x100 {
		t.Fatalf("flattened parts must cover the whole segment: %+v", parts)
	}
	if parts[1].Name != ".init" {
		t.Fatalf("expected section name preserved, got %q", parts[1].Name)
	}
}

func TestAddSectionRejectsOverlapWithinSegment(t *testing.T) {
	b := NewSegmentBuilder()
	must(t, b.AddSegment(0, 0x100, ".text", KindCode))
	must(t, b.AddSectionEnd(".a", 0x10, 0x30))
	if err := b.AddSectionSize(".b", 0x20, 0x10); err == nil {
		t.Fatalf("expected overlapping section to be rejected")
	}
}

func TestAddSectionNoContainingSegment(t *testing.T) {
	b := NewSegmentBuilder()
	must(t, b.AddSegment(0, 0x10, ".text", KindCode))
	if err := b.AddSectionEnd(".orphan", 0x100, 0x110); err == nil {
		t.Fatalf("expected section outside every segment to be rejected")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
