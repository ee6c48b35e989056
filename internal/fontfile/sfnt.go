package fontfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnsupportedFlavor marks compressed web font containers, which this
	// package cannot rewrite.
	ErrUnsupportedFlavor = errors.New("unsupported font flavor")
	// ErrMalformed marks structurally invalid font data.
	ErrMalformed = errors.New("malformed font data")
)

// Flavor identifies the outer container of a font file.
type Flavor int

const (
	FlavorUnknown Flavor = iota
	FlavorTrueType
	FlavorCFF
	FlavorCollection
	FlavorWOFF
	FlavorWOFF2
)

func (f Flavor) String() string {
	switch f {
	case FlavorTrueType:
		return "truetype"
	case FlavorCFF:
		return "opentype"
	case FlavorCollection:
		return "collection"
	case FlavorWOFF:
		return "woff"
	case FlavorWOFF2:
		return "woff2"
	default:
		return "unknown"
	}
}

const (
	tagCollection = 0x74746366 // 'ttcf'
	tagTrue       = 0x74727565 // 'true'
	tagOTTO       = 0x4F54544F // 'OTTO'
	tagWOFF       = 0x774F4646 // 'wOFF'
	tagWOFF2      = 0x774F4632 // 'wOF2'
	versionTT     = 0x00010000

	checksumMagic = 0xB1B0AFBA
)

// DetectFlavor classifies font data by its leading tag.
func DetectFlavor(data []byte) Flavor {
	if len(data) < 4 {
		return FlavorUnknown
	}
	switch binary.BigEndian.Uint32(data) {
	case versionTT, tagTrue:
		return FlavorTrueType
	case tagOTTO:
		return FlavorCFF
	case tagCollection:
		return FlavorCollection
	case tagWOFF:
		return FlavorWOFF
	case tagWOFF2:
		return FlavorWOFF2
	default:
		return FlavorUnknown
	}
}

// TableRecord is one entry of a face's table directory.
type TableRecord struct {
	Tag      string
	Checksum uint32
	Offset   uint32
	Length   uint32
}

// Face is a single font inside a font file. Collections hold several faces
// that may share table data.
type Face struct {
	data    []byte
	Version uint32
	Tables  []TableRecord
}

// Parse returns every face of a font file in collection order. Plain font
// files yield a single face.
func Parse(data []byte) ([]*Face, error) {
	switch DetectFlavor(data) {
	case FlavorTrueType, FlavorCFF:
		face, err := parseFace(data, 0)
		if err != nil {
			return nil, err
		}
		return []*Face{face}, nil
	case FlavorCollection:
		return parseCollection(data)
	case FlavorWOFF, FlavorWOFF2:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFlavor, DetectFlavor(data))
	default:
		return nil, fmt.Errorf("%w: unrecognized header", ErrMalformed)
	}
}

// NumFaces reports how many faces a font file holds.
func NumFaces(data []byte) (int, error) {
	faces, err := Parse(data)
	if err != nil {
		return 0, err
	}
	return len(faces), nil
}

func parseCollection(data []byte) ([]*Face, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: truncated collection header", ErrMalformed)
	}
	count := binary.BigEndian.Uint32(data[8:])
	if count == 0 || uint64(12)+uint64(count)*4 > uint64(len(data)) {
		return nil, fmt.Errorf("%w: collection holds %d faces", ErrMalformed, count)
	}
	faces := make([]*Face, 0, count)
	for i := uint32(0); i < count; i++ {
		offset := binary.BigEndian.Uint32(data[12+4*i:])
		face, err := parseFace(data, offset)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		faces = append(faces, face)
	}
	return faces, nil
}

func parseFace(data []byte, offset uint32) (*Face, error) {
	if uint64(offset)+12 > uint64(len(data)) {
		return nil, fmt.Errorf("%w: truncated offset table", ErrMalformed)
	}
	header := data[offset:]
	numTables := int(binary.BigEndian.Uint16(header[4:]))
	if 12+numTables*16 > len(header) {
		return nil, fmt.Errorf("%w: truncated table directory", ErrMalformed)
	}
	face := &Face{
		data:    data,
		Version: binary.BigEndian.Uint32(header),
		Tables:  make([]TableRecord, 0, numTables),
	}
	for i := 0; i < numTables; i++ {
		rec := header[12+16*i:]
		tr := TableRecord{
			Tag:      string(rec[:4]),
			Checksum: binary.BigEndian.Uint32(rec[4:]),
			Offset:   binary.BigEndian.Uint32(rec[8:]),
			Length:   binary.BigEndian.Uint32(rec[12:]),
		}
		if uint64(tr.Offset)+uint64(tr.Length) > uint64(len(data)) {
			return nil, fmt.Errorf("%w: table %q exceeds file size", ErrMalformed, tr.Tag)
		}
		face.Tables = append(face.Tables, tr)
	}
	return face, nil
}

// Table returns the raw bytes of the named table.
func (f *Face) Table(tag string) ([]byte, bool) {
	for _, tr := range f.Tables {
		if tr.Tag == tag {
			return f.data[tr.Offset : tr.Offset+tr.Length], true
		}
	}
	return nil, false
}

// IsCFF reports whether the face carries PostScript outlines.
func (f *Face) IsCFF() bool {
	if f.Version == tagOTTO {
		return true
	}
	_, ok := f.Table("CFF ")
	if !ok {
		_, ok = f.Table("CFF2")
	}
	return ok
}

// Build assembles a standalone font file from the face. Tables present in
// replace substitute the original bytes; a nil value drops the table. Table
// checksums and the head checkSumAdjustment are recomputed.
func (f *Face) Build(replace map[string][]byte) ([]byte, error) {
	type entry struct {
		tag  string
		body []byte
	}
	entries := make([]entry, 0, len(f.Tables))
	seen := make(map[string]struct{}, len(f.Tables))
	for _, tr := range f.Tables {
		seen[tr.Tag] = struct{}{}
		body := f.data[tr.Offset : tr.Offset+tr.Length]
		if repl, ok := replace[tr.Tag]; ok {
			if repl == nil {
				continue
			}
			body = repl
		}
		entries = append(entries, entry{tag: tr.Tag, body: body})
	}
	for tag, body := range replace {
		if _, ok := seen[tag]; ok || body == nil {
			continue
		}
		if len(tag) != 4 {
			return nil, fmt.Errorf("%w: invalid table tag %q", ErrMalformed, tag)
		}
		entries = append(entries, entry{tag: tag, body: body})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })

	numTables := len(entries)
	headerLen := 12 + 16*numTables
	total := headerLen
	for _, e := range entries {
		total += pad4(len(e.body))
	}
	out := make([]byte, total)

	binary.BigEndian.PutUint32(out, f.Version)
	binary.BigEndian.PutUint16(out[4:], uint16(numTables))
	entrySelector := 0
	for 1<<(entrySelector+1) <= numTables {
		entrySelector++
	}
	searchRange := (1 << entrySelector) * 16
	binary.BigEndian.PutUint16(out[6:], uint16(searchRange))
	binary.BigEndian.PutUint16(out[8:], uint16(entrySelector))
	binary.BigEndian.PutUint16(out[10:], uint16(numTables*16-searchRange))

	headOffset := -1
	pos := headerLen
	for i, e := range entries {
		copy(out[pos:], e.body)
		if e.tag == "head" {
			if len(e.body) < 12 {
				return nil, fmt.Errorf("%w: head table too short", ErrMalformed)
			}
			headOffset = pos
			binary.BigEndian.PutUint32(out[pos+8:], 0)
		}
		rec := out[12+16*i:]
		copy(rec, e.tag)
		binary.BigEndian.PutUint32(rec[4:], Checksum(out[pos:pos+len(e.body)]))
		binary.BigEndian.PutUint32(rec[8:], uint32(pos))
		binary.BigEndian.PutUint32(rec[12:], uint32(len(e.body)))
		pos += pad4(len(e.body))
	}

	if headOffset >= 0 {
		binary.BigEndian.PutUint32(out[headOffset+8:], checksumMagic-Checksum(out))
	}
	return out, nil
}

// Extract returns face index of a font file as a standalone font.
func Extract(data []byte, index int) ([]byte, error) {
	faces, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(faces) {
		return nil, fmt.Errorf("%w: face index %d out of range (%d faces)", ErrMalformed, index, len(faces))
	}
	if len(faces) == 1 && DetectFlavor(data) != FlavorCollection {
		return data, nil
	}
	return faces[index].Build(nil)
}

// Checksum computes the SFNT checksum of data, zero-padded to a multiple of
// four bytes.
func Checksum(data []byte) uint32 {
	var sum uint32
	n := len(data) &^ 3
	for i := 0; i < n; i += 4 {
		sum += binary.BigEndian.Uint32(data[i:])
	}
	if rest := len(data) - n; rest > 0 {
		var tail [4]byte
		copy(tail[:], data[n:])
		sum += binary.BigEndian.Uint32(tail[:])
	}
	return sum
}

func pad4(n int) int {
	return (n + 3) &^ 3
}
