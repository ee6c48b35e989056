package language

import (
	"path/filepath"
	"strings"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2/T (3-letter)
	alt3    string   // ISO 639-2/B when it differs (e.g. "chi" vs "zho")
	display string   // Human-readable name
	tags    []string // Subtitle file name tags and word forms
}

var languages = []entry{
	{"zh", "zho", "chi", "Chinese", []string{"chinese", "chs", "cht", "sc", "tc", "gb", "big5", "zh-hans", "zh-hant", "zh-cn", "zh-tw"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese", "jp", "jap"}},
	{"en", "eng", "", "English", []string{"english"}},
	{"ko", "kor", "", "Korean", []string{"korean", "kr"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
	{"vi", "vie", "", "Vietnamese", []string{"vietnamese"}},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byTag   map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byTag = make(map[string]*entry, len(languages)*4)
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, tag := range e.tags {
			byTag[tag] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byTag[code]; ok {
		return e
	}
	return nil
}

// ToISO2 converts any recognized language code or tag to ISO 639-1.
// Unknown 2-letter codes pass through; anything else unknown yields "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// ToISO3 converts any recognized language code to ISO 639-2/T.
// Returns "und" for unrecognized 2-letter codes, passes through 3-letter codes.
func ToISO3(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "und"
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	if len(code) == 3 {
		return code
	}
	return "und"
}

// ToMatroska returns the bibliographic ISO 639-2 code Matroska track headers
// have traditionally carried ("chi" rather than "zho"). Unknown 3-letter codes
// pass through and anything else becomes "und".
func ToMatroska(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if e := lookup(code); e != nil {
		if e.alt3 != "" {
			return e.alt3
		}
		return e.code3
	}
	if len(code) == 3 {
		return code
	}
	return "und"
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// FromFileName inspects the dot-separated segments a subtitle file name adds
// after its container stem ("ep01.chs.ass" -> "chs") and returns the Matroska
// code of the first recognized one, or "" when none is recognized.
func FromFileName(name, stem string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if len(base) < len(stem) || !strings.EqualFold(base[:len(stem)], stem) {
		return ""
	}
	for _, segment := range strings.Split(base[len(stem):], ".") {
		if e := lookup(segment); e != nil {
			if e.alt3 != "" {
				return e.alt3
			}
			return e.code3
		}
	}
	return ""
}
