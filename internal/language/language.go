package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
}

// Index maps built at init time.
var (
	byCode map[string]*entry
	byWord map[string]*entry
)

var namer = display.English.Languages()

func init() {
	byCode = make(map[string]*entry, len(languages)*3)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode[e.code2] = e
		byCode[e.code3] = e
		if e.alt3 != "" {
			byCode[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// DisplayName returns a human-readable language name for a stream tag.
// Returns "Unknown" for empty or undetermined input, or the uppercased code
// when neither the table nor x/text recognises it.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" || strings.EqualFold(trimmed, "und") {
		return "Unknown"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	tag, err := language.Parse(trimmed)
	if err == nil {
		if name := namer.Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(trimmed)
}
