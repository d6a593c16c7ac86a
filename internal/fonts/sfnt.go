package fonts

import (
	"encoding/binary"
	"fmt"
	"sort"
)

const (
	sfntVersionTrueType = 0x00010000
	sfntVersionOpenType = 0x4F54544F // 'OTTO'
	sfntHeaderSize      = 12
	sfntEntrySize       = 16
)

// sfntTable is one table record from a font's table directory.
type sfntTable struct {
	tag    string
	offset uint32
	length uint32
}

// sfntFont is a parsed font: the flavor (sfnt version) plus its tables in
// physical (offset) order. Table payloads are slices into the source buffer.
type sfntFont struct {
	flavor uint32
	tables []sfntTable
	data   []byte
}

// parseSFNT decodes the offset table and table directory of a TrueType or
// OpenType font and validates that every table lies within the buffer.
func parseSFNT(data []byte) (*sfntFont, error) {
	if len(data) < sfntHeaderSize {
		return nil, fmt.Errorf("font too short: %d bytes", len(data))
	}

	flavor := binary.BigEndian.Uint32(data[0:4])
	if flavor != sfntVersionTrueType && flavor != sfntVersionOpenType {
		return nil, fmt.Errorf("unrecognized sfnt version 0x%08X", flavor)
	}

	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	if numTables == 0 {
		return nil, fmt.Errorf("font has no tables")
	}
	dirEnd := sfntHeaderSize + numTables*sfntEntrySize
	if len(data) < dirEnd {
		return nil, fmt.Errorf("truncated table directory: %d tables, %d bytes", numTables, len(data))
	}

	font := &sfntFont{
		flavor: flavor,
		tables: make([]sfntTable, 0, numTables),
		data:   data,
	}

	for i := 0; i < numTables; i++ {
		entry := data[sfntHeaderSize+i*sfntEntrySize:]
		t := sfntTable{
			tag:    string(entry[0:4]),
			offset: binary.BigEndian.Uint32(entry[8:12]),
			length: binary.BigEndian.Uint32(entry[12:16]),
		}
		if uint64(t.offset)+uint64(t.length) > uint64(len(data)) {
			return nil, fmt.Errorf("table %q extends past end of font", t.tag)
		}
		font.tables = append(font.tables, t)
	}

	// The compressed stream must carry tables in physical order.
	sort.Slice(font.tables, func(i, j int) bool {
		return font.tables[i].offset < font.tables[j].offset
	})

	return font, nil
}

// tableData returns the payload of one table.
func (f *sfntFont) tableData(t sfntTable) []byte {
	return f.data[t.offset : t.offset+t.length]
}
