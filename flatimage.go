package nxo

// buildFlatImage reassembles the text/ro/data segments into one
// contiguous virtual-address-ordered buffer (spec §4.3), zero-padding
// or truncating at each seam so that the next segment's vaddr lands
// exactly where it expects to be written. Truncation only ever happens
// when segments overlap in virtual address space, which should not
// occur in a well-formed container; it is recorded as a warning rather
// than a fatal error, matching the source tool's "print and continue"
// behavior.
func buildFlatImage(text, ro, data rawSegment) ([]byte, []string) {
	var warnings []string

	full := append([]byte(nil), text.Bytes...)

	if ro.Vaddr >= uint64(len(full)) {
		full = append(full, make([]byte, ro.Vaddr-uint64(len(full)))...)
	} else {
		warnings = append(warnings, "truncating .text: .rodata overlaps it")
		full = full[:ro.Vaddr]
	}
	full = append(full, ro.Bytes...)

	if data.Vaddr > uint64(len(full)) {
		full = append(full, make([]byte, data.Vaddr-uint64(len(full)))...)
	} else if data.Vaddr < uint64(len(full)) {
		warnings = append(warnings, "truncating .rodata: .data overlaps it")
		full = full[:data.Vaddr]
	}
	full = append(full, data.Bytes...)

	return full, warnings
}
