package fontfile

import (
	"encoding/binary"
	"fmt"
)

// Names returns the lookup names (family, full, PostScript) of the face.
func (f *Face) Names() ([]string, error) {
	raw, ok := f.Table("name")
	if !ok {
		return nil, fmt.Errorf("%w: missing name table", ErrMalformed)
	}
	table, err := ParseNameTable(raw)
	if err != nil {
		return nil, err
	}
	return table.Strings(LookupNameIDs...), nil
}

// Rename rewrites the family, full, and PostScript names of face index to
// name in every platform, encoding, and language variant and returns the
// face as a standalone font.
func Rename(data []byte, index int, name string) ([]byte, error) {
	faces, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(faces) {
		return nil, fmt.Errorf("%w: face index %d out of range (%d faces)", ErrMalformed, index, len(faces))
	}
	face := faces[index]
	raw, ok := face.Table("name")
	if !ok {
		return nil, fmt.Errorf("%w: missing name table", ErrMalformed)
	}
	table, err := ParseNameTable(raw)
	if err != nil {
		return nil, err
	}
	if err := table.SetAll(name, LookupNameIDs...); err != nil {
		return nil, err
	}
	return face.Build(map[string][]byte{"name": table.Encode()})
}

// ReplaceNames discards the naming table of face index and writes one
// Windows Unicode (en-US) record per entry of names. Fixtures and repair
// tooling use it to give a font a known identity.
func ReplaceNames(data []byte, index int, names map[uint16]string) ([]byte, error) {
	faces, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(faces) {
		return nil, fmt.Errorf("%w: face index %d out of range (%d faces)", ErrMalformed, index, len(faces))
	}
	table := &NameTable{}
	for id, value := range names {
		encoded, err := EncodeName(platformWindows, 1, value)
		if err != nil {
			return nil, err
		}
		table.Records = append(table.Records, NameRecord{
			PlatformID: platformWindows,
			EncodingID: 1,
			LanguageID: 0x0409,
			NameID:     id,
			Value:      encoded,
		})
	}
	return faces[index].Build(map[string][]byte{"name": table.Encode()})
}

// Collection assembles standalone fonts into a TrueType collection file.
// Tables are copied per face; no data is shared.
func Collection(fonts ...[]byte) ([]byte, error) {
	if len(fonts) == 0 {
		return nil, fmt.Errorf("%w: empty collection", ErrMalformed)
	}
	headerLen := 12 + 4*len(fonts)
	out := make([]byte, headerLen)
	copy(out, "ttcf")
	binary.BigEndian.PutUint16(out[4:], 1)
	binary.BigEndian.PutUint32(out[8:], uint32(len(fonts)))
	for i, data := range fonts {
		faces, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("font %d: %w", i, err)
		}
		if len(faces) != 1 {
			return nil, fmt.Errorf("%w: font %d is itself a collection", ErrMalformed, i)
		}
		base := len(out)
		binary.BigEndian.PutUint32(out[12+4*i:], uint32(base))
		standalone, err := faces[0].Build(nil)
		if err != nil {
			return nil, err
		}
		// Rebase the table offsets onto the collection.
		numTables := int(binary.BigEndian.Uint16(standalone[4:]))
		for t := 0; t < numTables; t++ {
			rec := standalone[12+16*t:]
			binary.BigEndian.PutUint32(rec[8:], binary.BigEndian.Uint32(rec[8:])+uint32(base))
		}
		out = append(out, standalone...)
	}
	return out, nil
}
