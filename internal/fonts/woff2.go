package fonts

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/andybalholm/brotli"
)

const (
	woff2Signature  = 0x774F4632 // 'wOF2'
	woff2HeaderSize = 48
)

// knownTableTags is the fixed tag registry from the WOFF2 table directory
// format. A table whose tag appears here is encoded as a bare index byte;
// anything else uses index 63 followed by the literal tag.
var knownTableTags = [...]string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca", "prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern", "LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS", "GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL", "SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar", "fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar", "mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat", "Gloc", "Feat", "Sill",
}

func knownTagIndex(tag string) int {
	for i, t := range knownTableTags {
		if t == tag {
			return i
		}
	}
	return -1
}

// ConvertTTF repackages a TrueType or OpenType font into a WOFF2 container.
// Tables are carried untransformed and the combined payload is compressed
// with Brotli at maximum quality.
func ConvertTTF(ttf []byte) ([]byte, error) {
	font, err := parseSFNT(ttf)
	if err != nil {
		return nil, err
	}

	// Table directory plus the uncompressed stream, both in physical order.
	var dir bytes.Buffer
	var stream bytes.Buffer
	totalSfntSize := uint32(sfntHeaderSize + sfntEntrySize*len(font.tables))
	for _, t := range font.tables {
		writeDirectoryEntry(&dir, t)
		stream.Write(font.tableData(t))
		totalSfntSize += align4(t.length)
	}

	var compressed bytes.Buffer
	bw := brotli.NewWriterLevel(&compressed, brotli.BestCompression)
	if _, err := bw.Write(stream.Bytes()); err != nil {
		return nil, fmt.Errorf("compress font tables: %w", err)
	}
	if err := bw.Close(); err != nil {
		return nil, fmt.Errorf("compress font tables: %w", err)
	}

	unpadded := woff2HeaderSize + uint32(dir.Len()) + uint32(compressed.Len())
	totalLength := align4(unpadded)

	out := bytes.NewBuffer(make([]byte, 0, totalLength))
	writeUint32(out, woff2Signature)
	writeUint32(out, font.flavor)
	writeUint32(out, totalLength)
	writeUint16(out, uint16(len(font.tables)))
	writeUint16(out, 0) // reserved
	writeUint32(out, totalSfntSize)
	writeUint32(out, uint32(compressed.Len()))
	writeUint16(out, 1) // majorVersion
	writeUint16(out, 0) // minorVersion
	writeUint32(out, 0) // metaOffset
	writeUint32(out, 0) // metaLength
	writeUint32(out, 0) // metaOrigLength
	writeUint32(out, 0) // privOffset
	writeUint32(out, 0) // privLength
	out.Write(dir.Bytes())
	out.Write(compressed.Bytes())
	for i := unpadded; i < totalLength; i++ {
		out.WriteByte(0)
	}

	return out.Bytes(), nil
}

// writeDirectoryEntry emits one WOFF2 table directory entry. All tables are
// written with the null transform, so no transformLength field follows: the
// null transform is version 3 for glyf and loca and version 0 elsewhere.
func writeDirectoryEntry(dir *bytes.Buffer, t sfntTable) {
	idx := knownTagIndex(t.tag)
	flags := byte(63)
	if idx >= 0 {
		flags = byte(idx)
	}
	if t.tag == "glyf" || t.tag == "loca" {
		flags |= 3 << 6
	}
	dir.WriteByte(flags)
	if idx < 0 {
		dir.WriteString(t.tag)
	}
	writeUintBase128(dir, t.length)
}

// writeUintBase128 encodes a value in the variable-length UIntBase128 form:
// most significant bits first, seven bits per byte, high bit set on every
// byte except the last.
func writeUintBase128(buf *bytes.Buffer, v uint32) {
	var tmp [5]byte
	n := 0
	for {
		tmp[n] = byte(v & 0x7F)
		n++
		v >>= 7
		if v == 0 {
			break
		}
	}
	for i := n - 1; i >= 0; i-- {
		b := tmp[i]
		if i > 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
	}
}

func align4(n uint32) uint32 {
	return (n + 3) &^ 3
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}
