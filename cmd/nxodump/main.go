// Command nxodump loads an NSO, NRO or KIP module and prints what the
// parser recovered from it: architecture, segments, module name and
// needed libraries, plus sections, dynamic symbols, relocations and PLT
// stubs when NXO_VERBOSE is set. Warnings go to stderr. It writes
// nothing back.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
	"github.com/xyproto/nxo"
)

var verbose = env.Bool("NXO_VERBOSE", false)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <file.nso|file.nro|file.kip>\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)
	f, closeFile, err := nxo.OpenFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nxodump: %s: %v\n", path, err)
		os.Exit(1)
	}
	defer closeFile()

	arch := "aarch64"
	if f.ArmV7 {
		arch = "armv7"
	}
	fmt.Printf("arch: %s\n", arch)
	fmt.Printf("text:   off=0x%x size=0x%x\n", f.TextOff, f.TextSize)
	fmt.Printf("rodata: off=0x%x size=0x%x\n", f.RodataOff, f.RodataSize)
	fmt.Printf("data:   off=0x%x size=0x%x\n", f.DataOff, f.DataSize)
	fmt.Printf("bss:    off=0x%x size=0x%x\n", f.BssOff, f.BssSize)

	if name := f.Name(); name != nil {
		fmt.Printf("name: %s\n", name)
	}
	for _, lib := range f.Needed() {
		fmt.Printf("needed: %s\n", lib)
	}

	if verbose {
		for _, s := range f.Sections() {
			fmt.Printf("section %-16s 0x%08x-0x%08x %s\n", s.Name, s.Start, s.End, s.Kind)
		}
		for _, sym := range f.Symbols() {
			fmt.Printf("symbol %-32s val=0x%x size=0x%x type=%d bind=%d\n",
				sym.Name, sym.Value, sym.Size, sym.Type(), sym.Bind())
		}
		for _, r := range f.Relocations() {
			fmt.Printf("reloc off=0x%x type=%d\n", r.Offset, r.RType)
		}
		for _, p := range f.PLTEntries() {
			fmt.Printf("plt off=0x%x target=0x%x\n", p.Offset, p.Target)
		}
	}

	for _, w := range f.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}
