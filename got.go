package nxo

// inferGot locates .got following .got.plt (or the dynamic table, when
// there is no PLT) by growing a candidate range one offsize word at a
// time as long as either the next word is itself a known relocation
// location, or no PLT was found and the candidate still precedes
// DT_INIT_ARRAY (spec §4.8). Growth stops once it reaches DT_INIT_ARRAY,
// unless DT_INIT_ARRAY itself lies before gotStart (in which case it
// isn't a useful bound and is ignored).
//
// A container missing DT_INIT_ARRAY entirely while also lacking a PLT
// leaves nothing to bound growth by; every toolchain that produces a
// dynamically-linked NSO/NRO emits an init array, so rather than loop
// without bound this treats that combination as "nothing to infer" and
// requires DT_INIT_ARRAY to be present for the PLT-less growth path.
func (f *NxoFile) inferGot(locations map[uint64]bool, pltGotEnd *uint64) (start, end uint64, ok bool) {
	initArray, hasInitArray := f.dynamicValue(DT_INIT_ARRAY)

	gotStart := f.DynamicOff + f.DynamicSize
	if pltGotEnd != nil {
		gotStart = *pltGotEnd
	}
	gotEnd := gotStart + f.OffSize

	good := false
	for (locations[gotEnd] || (pltGotEnd == nil && hasInitArray && gotEnd < initArray)) &&
		(!hasInitArray || gotEnd < initArray || initArray < gotStart) {
		good = true
		gotEnd += f.OffSize
	}

	if !good {
		return 0, 0, false
	}
	return gotStart, gotEnd, true
}
