package nxo

// rawSegment is one of the three loadable segments (text/ro/data) as
// decoded straight out of a container, before flat-image reassembly.
// FileOff is nil when the bytes came out of decompression and have no
// corresponding offset in the source container.
type rawSegment struct {
	Bytes   []byte
	FileOff *uint64
	Vaddr   uint64
	Vsize   uint64
}

// nxoFlags mirrors NxoFlags in files.py: bit 0/1/2 mark text/ro/data as
// compressed. Higher bits (hash flags) are read but ignored, same as
// the source.
type nxoFlags uint32

const (
	flagTextCompressed nxoFlags = 1 << 0
	flagROCompressed   nxoFlags = 1 << 1
	flagDataCompressed nxoFlags = 1 << 2
)

// Load detects the container kind (NSO0/NRO0/KIP1) from the header magic
// and parses it into an *NxoFile. Load never returns a partially
// constructed file: any error is fatal to the whole parse (spec §7).
func Load(data []byte) (*NxoFile, error) {
	if len(data) < 0x14 {
		return nil, errBadMagic("input too short to contain a container header")
	}
	header := data[:0x14]

	switch {
	case string(header[0:4]) == "NSO0":
		return loadNso(data)
	case string(header[0x10:0x14]) == "NRO0":
		return loadNro(data)
	case string(header[0:4]) == "KIP1":
		return loadKip(data)
	default:
		return nil, errBadMagic("not an NSO, NRO or KIP file")
	}
}
