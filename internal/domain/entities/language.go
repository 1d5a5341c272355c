package entities

import "sort"

// Language describes a quiz language and the catalog file that backs it.
type Language struct {
	Key      string // route key, e.g. "bengali"
	Label    string // user-facing name
	Flag     string // emoji flag
	DataFile string // catalog file name under the data directory
}

// DefaultLanguageKey is used when no or an unknown language is requested.
const DefaultLanguageKey = "bengali"

var languages = map[string]Language{
	"bengali": {
		Key:      "bengali",
		Label:    "ベンガル語",
		Flag:     "🇧🇩",
		DataFile: "bengali.json",
	},
}

// ResolveLanguage returns the language for key, falling back to the default.
func ResolveLanguage(key string) Language {
	if l, ok := languages[key]; ok {
		return l
	}
	return languages[DefaultLanguageKey]
}

// Languages returns every supported language sorted by key.
func Languages() []Language {
	out := make([]Language, 0, len(languages))
	for _, l := range languages {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
