package fontfile

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Name IDs used for font lookup and obfuscation.
const (
	NameFamily     uint16 = 1
	NameFull       uint16 = 4
	NamePostScript uint16 = 6
)

// LookupNameIDs are the name IDs renderers match font requests against.
var LookupNameIDs = []uint16{NameFamily, NameFull, NamePostScript}

const (
	platformUnicode   = 0
	platformMacintosh = 1
	platformISO       = 2
	platformWindows   = 3
)

// NameRecord is one string of the naming table in its stored encoding.
type NameRecord struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     uint16
	Value      []byte
}

// NameTable is a decoded 'name' table.
type NameTable struct {
	Format   uint16
	Records  []NameRecord
	LangTags [][]byte
}

// ParseNameTable decodes the raw bytes of a 'name' table.
func ParseNameTable(data []byte) (*NameTable, error) {
	if len(data) < 6 {
		return nil, fmt.Errorf("%w: name table too short", ErrMalformed)
	}
	t := &NameTable{Format: binary.BigEndian.Uint16(data)}
	if t.Format > 1 {
		return nil, fmt.Errorf("%w: name table format %d", ErrMalformed, t.Format)
	}
	count := int(binary.BigEndian.Uint16(data[2:]))
	storage := int(binary.BigEndian.Uint16(data[4:]))
	if 6+count*12 > len(data) {
		return nil, fmt.Errorf("%w: truncated name records", ErrMalformed)
	}
	str := func(length, offset int) ([]byte, error) {
		start := storage + offset
		if start+length > len(data) {
			return nil, fmt.Errorf("%w: name string outside table", ErrMalformed)
		}
		return append([]byte(nil), data[start:start+length]...), nil
	}
	t.Records = make([]NameRecord, 0, count)
	for i := 0; i < count; i++ {
		rec := data[6+12*i:]
		value, err := str(int(binary.BigEndian.Uint16(rec[8:])), int(binary.BigEndian.Uint16(rec[10:])))
		if err != nil {
			return nil, err
		}
		t.Records = append(t.Records, NameRecord{
			PlatformID: binary.BigEndian.Uint16(rec),
			EncodingID: binary.BigEndian.Uint16(rec[2:]),
			LanguageID: binary.BigEndian.Uint16(rec[4:]),
			NameID:     binary.BigEndian.Uint16(rec[6:]),
			Value:      value,
		})
	}
	if t.Format == 1 {
		pos := 6 + count*12
		if pos+2 > len(data) {
			return nil, fmt.Errorf("%w: truncated language tags", ErrMalformed)
		}
		tagCount := int(binary.BigEndian.Uint16(data[pos:]))
		pos += 2
		if pos+tagCount*4 > len(data) {
			return nil, fmt.Errorf("%w: truncated language tags", ErrMalformed)
		}
		for i := 0; i < tagCount; i++ {
			rec := data[pos+4*i:]
			value, err := str(int(binary.BigEndian.Uint16(rec)), int(binary.BigEndian.Uint16(rec[2:])))
			if err != nil {
				return nil, err
			}
			t.LangTags = append(t.LangTags, value)
		}
	}
	return t, nil
}

// Encode serializes the table. Records are written in the sorted order the
// format requires.
func (t *NameTable) Encode() []byte {
	records := append([]NameRecord(nil), t.Records...)
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.PlatformID != b.PlatformID {
			return a.PlatformID < b.PlatformID
		}
		if a.EncodingID != b.EncodingID {
			return a.EncodingID < b.EncodingID
		}
		if a.LanguageID != b.LanguageID {
			return a.LanguageID < b.LanguageID
		}
		return a.NameID < b.NameID
	})

	headerLen := 6 + 12*len(records)
	if t.Format == 1 {
		headerLen += 2 + 4*len(t.LangTags)
	}
	var storage []byte
	offsets := make(map[string]int)
	place := func(value []byte) int {
		if off, ok := offsets[string(value)]; ok {
			return off
		}
		off := len(storage)
		storage = append(storage, value...)
		offsets[string(value)] = off
		return off
	}

	out := make([]byte, headerLen)
	binary.BigEndian.PutUint16(out, t.Format)
	binary.BigEndian.PutUint16(out[2:], uint16(len(records)))
	binary.BigEndian.PutUint16(out[4:], uint16(headerLen))
	for i, r := range records {
		rec := out[6+12*i:]
		binary.BigEndian.PutUint16(rec, r.PlatformID)
		binary.BigEndian.PutUint16(rec[2:], r.EncodingID)
		binary.BigEndian.PutUint16(rec[4:], r.LanguageID)
		binary.BigEndian.PutUint16(rec[6:], r.NameID)
		binary.BigEndian.PutUint16(rec[8:], uint16(len(r.Value)))
		binary.BigEndian.PutUint16(rec[10:], uint16(place(r.Value)))
	}
	if t.Format == 1 {
		pos := 6 + 12*len(records)
		binary.BigEndian.PutUint16(out[pos:], uint16(len(t.LangTags)))
		for i, tag := range t.LangTags {
			rec := out[pos+2+4*i:]
			binary.BigEndian.PutUint16(rec, uint16(len(tag)))
			binary.BigEndian.PutUint16(rec[2:], uint16(place(tag)))
		}
	}
	return append(out, storage...)
}

// Strings returns the decoded, de-duplicated values of the given name IDs in
// table order. Records whose encoding is unknown are skipped.
func (t *NameTable) Strings(ids ...uint16) []string {
	want := make(map[uint16]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []string
	seen := make(map[string]struct{})
	for _, r := range t.Records {
		if !want[r.NameID] {
			continue
		}
		text, err := r.Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, text)
	}
	return out
}

// SetAll replaces the value of every record carrying one of ids, across all
// platform, encoding, and language variants.
func (t *NameTable) SetAll(value string, ids ...uint16) error {
	want := make(map[uint16]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for i := range t.Records {
		r := &t.Records[i]
		if !want[r.NameID] {
			continue
		}
		encoded, err := EncodeName(r.PlatformID, r.EncodingID, value)
		if err != nil {
			return fmt.Errorf("name id %d (platform %d encoding %d): %w", r.NameID, r.PlatformID, r.EncodingID, err)
		}
		r.Value = encoded
	}
	return nil
}

// Text decodes the record according to its platform and encoding.
func (r NameRecord) Text() (string, error) {
	enc, wide, err := nameEncoding(r.PlatformID, r.EncodingID)
	if err != nil {
		return "", err
	}
	value := r.Value
	if wide {
		value = narrow(value)
	}
	decoded, err := enc.NewDecoder().Bytes(value)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// EncodeName encodes s for storage in a record of the given platform and
// encoding. Encodings without a codec fall back per platform: Macintosh and ISO
// records take ASCII bytes as is, Windows records take UTF-16BE.
func EncodeName(platformID, encodingID uint16, s string) ([]byte, error) {
	enc, wide, err := nameEncoding(platformID, encodingID)
	if err != nil {
		switch {
		case (platformID == platformMacintosh || platformID == platformISO) && isASCII(s):
			return []byte(s), nil
		case platformID == platformWindows:
			return utf16BE.NewEncoder().Bytes([]byte(s))
		}
		return nil, err
	}
	encoded, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	if wide {
		encoded = widen(encoded)
	}
	return encoded, nil
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// nameEncoding maps a platform/encoding pair to its text encoding. wide is
// set for Windows multi-byte encodings, whose strings are conventionally
// stored as 16-bit units holding one byte each.
func nameEncoding(platformID, encodingID uint16) (enc encoding.Encoding, wide bool, err error) {
	switch platformID {
	case platformUnicode:
		return utf16BE, false, nil
	case platformMacintosh:
		switch encodingID {
		case 0:
			return charmap.Macintosh, false, nil
		case 1:
			return japanese.ShiftJIS, false, nil
		case 2:
			return traditionalchinese.Big5, false, nil
		case 3:
			return korean.EUCKR, false, nil
		case 25:
			return simplifiedchinese.GBK, false, nil
		}
	case platformISO:
		switch encodingID {
		case 0:
			return charmap.Windows1252, false, nil
		case 1:
			return utf16BE, false, nil
		case 2:
			return charmap.ISO8859_1, false, nil
		}
	case platformWindows:
		switch encodingID {
		case 0, 1, 10:
			return utf16BE, false, nil
		case 2:
			return japanese.ShiftJIS, true, nil
		case 3:
			return simplifiedchinese.GBK, true, nil
		case 4:
			return traditionalchinese.Big5, true, nil
		case 5:
			return korean.EUCKR, true, nil
		}
	}
	return nil, false, fmt.Errorf("unsupported name encoding (platform %d, encoding %d)", platformID, encodingID)
}

// narrow drops the zero high bytes Windows multi-byte names are padded with.
func narrow(b []byte) []byte {
	if len(b)%2 != 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i += 2 {
		if b[i] != 0 {
			out = append(out, b[i])
		}
		if b[i+1] != 0 || b[i] == 0 {
			out = append(out, b[i+1])
		}
	}
	return out
}

func widen(b []byte) []byte {
	out := make([]byte, 0, len(b)*2)
	for _, c := range b {
		out = append(out, 0, c)
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
