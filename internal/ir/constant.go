package ir

// Constant is a compile-time-known value destined for the data section
// (spec §4.6 "Data section": "an append-only, deduplicating pool of
// constant bytes").
type Constant struct {
	Type  Type
	Bytes []byte
}

// DataSection is the deduplicating constant pool codegen reads literal
// operands from.
type DataSection struct {
	entries []Constant
	index   map[string]int // byte-string -> entry index, for dedup
}

// NewDataSection creates an empty data section.
func NewDataSection() *DataSection {
	return &DataSection{index: make(map[string]int)}
}

// Intern adds c to the pool, returning the existing entry's index if an
// identical byte sequence was already interned (spec §4.6 "two identical
// constants must share one data-section entry").
func (d *DataSection) Intern(c Constant) int {
	key := string(c.Bytes)
	if idx, ok := d.index[key]; ok {
		return idx
	}
	idx := len(d.entries)
	d.entries = append(d.entries, c)
	d.index[key] = idx
	return idx
}

// Entries returns the interned constants in insertion order.
func (d *DataSection) Entries() []Constant { return d.entries }

// WordAlignedSize returns the byte offset of the entry at idx once the data
// section is laid out with each entry zero-padded to 8-byte alignment.
func (d *DataSection) WordAlignedSize(idx int) int {
	offset := 0
	for i := 0; i < idx; i++ {
		offset += alignUp(len(d.entries[i].Bytes), 8)
	}
	return offset
}

func alignUp(n, align int) int {
	if n%align == 0 {
		return n
	}
	return n + (align - n%align)
}
