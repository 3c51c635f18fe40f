package nxo

// Symbol is one entry of the dynamic symbol table (.dynsym).
//
// Resolved is reserved for the downstream loader: once it has applied a
// load bias to Value, it may stash the resulting absolute virtual address
// here. The parser never reads or writes it beyond leaving it nil.
type Symbol struct {
	Name  string
	Shndx uint16
	Value uint64
	Size  uint64

	info  uint8
	other uint8

	Resolved *uint64
}

// Type is the symbol's STT classification, derived from the raw info
// byte (info & 0xF).
func (s *Symbol) Type() STT { return STT(s.info & 0xF) }

// Bind is the symbol's STB classification, derived from the raw info
// byte (info >> 4).
func (s *Symbol) Bind() STB { return STB(s.info >> 4) }

// Vis is the symbol's visibility, derived from the raw "other" byte
// (other & 3).
func (s *Symbol) Vis() uint8 { return s.other & 3 }

func newSymbol(name string, info, other uint8, shndx uint16, value, size uint64) *Symbol {
	return &Symbol{Name: name, Shndx: shndx, Value: value, Size: size, info: info, other: other}
}
