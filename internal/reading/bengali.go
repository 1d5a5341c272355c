// Package reading renders romanized reading hints for native-script prompts.
// Hints help the learner decode a prompt; they play no part in grading.
package reading

import (
	"strings"

	"github.com/rivo/uniseg"
)

const (
	bengaliFirst = 0x0980
	bengaliLast  = 0x09FF

	virama = '্'
	nukta  = '়'
)

var consonants = map[rune]string{
	'ক': "k", 'খ': "kh", 'গ': "g", 'ঘ': "gh", 'ঙ': "ng",
	'চ': "ch", 'ছ': "chh", 'জ': "j", 'ঝ': "jh", 'ঞ': "ny",
	'ট': "ṭ", 'ঠ': "ṭh", 'ড': "ḍ", 'ঢ': "ḍh", 'ণ': "ṇ",
	'ত': "t", 'থ': "th", 'দ': "d", 'ধ': "dh", 'ন': "n",
	'প': "p", 'ফ': "ph", 'ব': "b", 'ভ': "bh", 'ম': "m",
	'য': "y", 'র': "r", 'ল': "l", 'শ': "sh", 'ষ': "sh", 'স': "s", 'হ': "h",
	'ড়': "r", 'ঢ়': "rh", 'য়': "y",
}

// nuktaForms maps a base consonant followed by a nukta to its reading.
var nuktaForms = map[rune]string{
	'ড': "r",
	'ঢ': "rh",
	'য': "y",
}

var independentVowels = map[string]string{
	"অ": "a", "আ": "ā", "ই": "i", "ঈ": "ī", "উ": "u", "ঊ": "ū",
	"ঋ": "ri", "এ": "e", "ঐ": "oi", "ও": "o", "ঔ": "ou",
}

var vowelSigns = map[rune]string{
	'া': "ā", 'ি': "i", 'ী': "ī", 'ু': "u", 'ূ': "ū",
	'ৃ': "ri", 'ে': "e", 'ৈ': "oi", 'ো': "o", 'ৌ': "ou",
}

var modifiers = map[rune]string{
	'ঁ': "̃",
	'ং': "ṁ",
	'ঃ': "ḥ",
}

// Segment is one grapheme cluster with its reading, empty when none is known.
type Segment struct {
	Grapheme string
	Reading  string
}

// Hints splits text into grapheme clusters and romanizes the Bengali ones.
func Hints(text string) []Segment {
	var out []Segment

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		seg := Segment{Grapheme: cluster}
		if isBengali(cluster) {
			seg.Reading = romanize(cluster)
		}
		out = append(out, seg)
	}

	return out
}

// Render returns text with each reading appended in parentheses, e.g. "ঢা(ḍhā)কা(kā)".
func Render(text string) string {
	var sb strings.Builder
	for _, seg := range Hints(text) {
		sb.WriteString(seg.Grapheme)
		if seg.Reading != "" {
			sb.WriteString("(")
			sb.WriteString(seg.Reading)
			sb.WriteString(")")
		}
	}
	return sb.String()
}

// Transliterate joins the readings of all clusters, keeping spaces.
// Clusters without a reading are skipped.
func Transliterate(text string) string {
	var sb strings.Builder
	for _, seg := range Hints(text) {
		switch {
		case seg.Reading != "":
			sb.WriteString(seg.Reading)
		case strings.TrimSpace(seg.Grapheme) == "":
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

func isBengali(cluster string) bool {
	for _, r := range cluster {
		return r >= bengaliFirst && r <= bengaliLast
	}
	return false
}

// romanize reads one cluster. A consonant cluster without a vowel sign gets
// "?" since the inherent vowel cannot be told from the script alone.
func romanize(cluster string) string {
	if v, ok := independentVowels[cluster]; ok {
		return v
	}

	var (
		cons   []string
		vowel  string
		signs  string
		last   rune
		hasVow bool
	)
	for _, r := range cluster {
		switch {
		case r == virama:
		case r == nukta:
			if form, ok := nuktaForms[last]; ok && len(cons) > 0 {
				cons[len(cons)-1] = form
			}
		default:
			if v, ok := vowelSigns[r]; ok {
				vowel, hasVow = v, true
			} else if m, ok := modifiers[r]; ok {
				signs += m
			} else if c, ok := consonants[r]; ok {
				cons = append(cons, c)
			}
		}
		last = r
	}

	if len(cons) == 0 {
		return ""
	}
	if !hasVow {
		vowel = "?"
	}
	return strings.Join(cons, "") + vowel + signs
}
