package nxo

import "testing"

func TestInferGotGrowsWhileLocationsAreTouched(t *testing.T) {
	f := &NxoFile{OffSize: 8, dynamicSingle: map[DT]uint64{DT_INIT_ARRAY: 0x5040}}
	locations := map[uint64]bool{0x5000: true, 0x5008: true, 0x5010: true}
	pltGotEnd := uint64(0x5000)

	start, end, ok := f.inferGot(locations, &pltGotEnd)
	if !ok {
		t.Fatalf("expected a .got range to be inferred")
	}
	if start != 0x5000 || end != 0x5018 {
		t.Fatalf("expected [0x5000, 0x5018), got [0x%x, 0x%x)", start, end)
	}
}

func TestInferGotStopsAtInitArrayWithoutPLT(t *testing.T) {
	f := &NxoFile{OffSize: 8, dynamicSingle: map[DT]uint64{DT_INIT_ARRAY: 0x5010}}
	locations := map[uint64]bool{}

	start, end, ok := f.inferGot(locations, nil)
	if !ok {
		t.Fatalf("expected a .got range to be inferred")
	}
	if start != f.DynamicOff+f.DynamicSize {
		t.Fatalf("expected got start to default to end of dynamic table, got 0x%x", start)
	}
	if end <= start || end > 0x5010 {
		t.Fatalf("expected got end to stay below INIT_ARRAY, got 0x%x", end)
	}
}

func TestInferGotNoCandidateWhenNothingGrows(t *testing.T) {
	f := &NxoFile{OffSize: 8, dynamicSingle: map[DT]uint64{DT_INIT_ARRAY: 0x5000}}
	locations := map[uint64]bool{}
	pltGotEnd := uint64(0x5000)

	if _, _, ok := f.inferGot(locations, &pltGotEnd); ok {
		t.Fatalf("expected no .got range when the first candidate word is untouched and INIT_ARRAY doesn't grow it")
	}
}
