package nxo

// EHEntry is one (pc, fde) pair out of .eh_frame_hdr's binary search
// table.
type EHEntry struct {
	PC    uint64
	Entry uint64
}

const dwEhPeOmit = 0xFF

// parseEHFrameHdr reads the eh_frame_hdr binary search table (spec
// §4.9). It only understands the specific pointer encodings libnx
// actually emits (pcrel sdata4 for eh_frame, absptr udata4 for the FDE
// count, datarel sdata4 for each table entry); anything else, including
// DW_EH_PE_omit, is treated as "nothing to parse" rather than an error,
// since ARM32 binaries and some KIPs legitimately have none of this.
func (f *NxoFile) parseEHFrameHdr() error {
	if f.ArmV7 {
		return nil
	}
	if f.UnwindOff >= f.UnwindEnd || f.UnwindEnd > uint64(len(f.Full)) {
		return nil
	}

	c := newCursor(f.Full)
	c.seek(f.UnwindOff)
	if _, err := c.readU8(); err != nil { // version
		return nil
	}
	ehFramePtrEnc, err := c.readU8()
	if err != nil {
		return nil
	}
	fdeCountEnc, err := c.readU8()
	if err != nil {
		return nil
	}
	tableEnc, err := c.readU8()
	if err != nil {
		return nil
	}
	if ehFramePtrEnc == dwEhPeOmit || fdeCountEnc == dwEhPeOmit || tableEnc == dwEhPeOmit {
		return nil
	}
	if ehFramePtrEnc != 0x1B || fdeCountEnc != 0x03 || tableEnc != 0x3B {
		return nil
	}

	baseOffset := c.tell()
	rel, err := c.readI32()
	if err != nil {
		return nil
	}
	ehFrame := uint64(int64(baseOffset) + int64(rel))

	fdeCount, err := c.readU32()
	if err != nil {
		return nil
	}
	if uint64(fdeCount)*8 > f.UnwindEnd-c.tell() {
		return nil
	}

	var table []EHEntry
	for i := uint32(0); i < fdeCount; i++ {
		pcRel, err := c.readI32()
		if err != nil {
			return err
		}
		entryRel, err := c.readI32()
		if err != nil {
			return err
		}
		table = append(table, EHEntry{
			PC:    f.UnwindOff + uint64(int64(pcRel)),
			Entry: f.UnwindOff + uint64(int64(entryRel)),
		})
	}
	f.ehTable = table

	if len(table) > 0 {
		last := table[0].Entry
		for _, e := range table {
			if e.Entry > last {
				last = e.Entry
			}
		}
		f.ehFrameStart, f.ehFrameEnd, f.haveEhFrame = ehFrame, last, true
	}
	return nil
}
