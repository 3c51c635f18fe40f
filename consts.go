package nxo

// DT is an ELF dynamic-table tag, restricted to the subset this loader
// understands. Unrecognized tags are stored in NxoFile's raw dynamic map
// but otherwise ignored.
type DT uint32

const (
	DT_NULL     DT = 0
	DT_NEEDED   DT = 1
	DT_PLTRELSZ DT = 2
	DT_PLTGOT   DT = 3
	DT_HASH     DT = 4
	DT_STRTAB   DT = 5
	DT_SYMTAB   DT = 6
	DT_RELA     DT = 7
	DT_RELASZ   DT = 8
	DT_RELAENT  DT = 9
	DT_STRSZ    DT = 10
	DT_SYMENT   DT = 11
	DT_INIT     DT = 12
	DT_FINI     DT = 13
	DT_SONAME   DT = 14
	DT_RPATH    DT = 15
	DT_SYMBOLIC DT = 16
	DT_REL      DT = 17
	DT_RELSZ    DT = 18
	DT_RELENT   DT = 19
	DT_PLTREL   DT = 20
	DT_DEBUG    DT = 21
	DT_TEXTREL  DT = 22
	DT_JMPREL   DT = 23
	DT_BIND_NOW DT = 24

	DT_INIT_ARRAY   DT = 25
	DT_FINI_ARRAY   DT = 26
	DT_INIT_ARRAYSZ DT = 27
	DT_FINI_ARRAYSZ DT = 28
	DT_RUNPATH      DT = 29
	DT_FLAGS        DT = 30

	// DT_RELR/DT_RELRSZ are not part of the classic System V tag space;
	// the source uses the GNU-standard values (spec §6).
	DT_RELR   DT = 0x6fffffba
	DT_RELRSZ DT = 0x6fffffb9

	DT_GNU_HASH  DT = 0x6ffffef5
	DT_VERSYM    DT = 0x6ffffff0
	DT_RELACOUNT DT = 0x6ffffff9
	DT_RELCOUNT  DT = 0x6ffffffa
	DT_FLAGS_1   DT = 0x6ffffffb
	DT_VERDEF    DT = 0x6ffffffc
	DT_VERDEFNUM DT = 0x6ffffffd
)

// multipleDTs accumulate a list of values (one dynamic table may carry
// several DT_NEEDED entries) rather than overwriting a single slot.
var multipleDTs = map[DT]bool{
	DT_NEEDED: true,
}

// STB is an ELF symbol binding.
type STB uint8

const (
	STB_LOCAL  STB = 0
	STB_GLOBAL STB = 1
	STB_WEAK   STB = 2
)

// STT is an ELF symbol type.
type STT uint8

const (
	STT_NOTYPE  STT = 0
	STT_OBJECT  STT = 1
	STT_FUNC    STT = 2
	STT_SECTION STT = 3
)

// AArch64 relocation types (R_AARCH64_*).
const (
	R_AARCH64_ABS64      uint32 = 257
	R_AARCH64_GLOB_DAT   uint32 = 1025
	R_AARCH64_JUMP_SLOT  uint32 = 1026
	R_AARCH64_RELATIVE   uint32 = 1027
	R_AARCH64_TLSDESC    uint32 = 1031
)

// ARM32 (R_ARM_*) relocation types.
const (
	R_ARM_ABS32     uint32 = 2
	R_ARM_TLS_DESC  uint32 = 13
	R_ARM_GLOB_DAT  uint32 = 21
	R_ARM_JUMP_SLOT uint32 = 22
	R_ARM_RELATIVE  uint32 = 23
)

// R_FAKE_RELR is a synthetic relocation type emitted for every location
// covered by a RELR run, so downstream consumers can treat them
// uniformly as relative relocations. It is the largest 32-bit value,
// which no real AArch64 or ARM relocation type uses.
const R_FAKE_RELR uint32 = 0xFFFFFFFF
