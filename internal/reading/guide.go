package reading

// GuideRow is one glyph of the reading guide with an optional example.
type GuideRow struct {
	Glyph   string
	Reading string
	Example string
}

// Guide is the static Bengali reading guide.
type Guide struct {
	Vowels      []GuideRow
	VowelSigns  []GuideRow
	Consonants  []GuideRow
	SuffixNotes []string
	Variants    []string
}

// BengaliGuide returns the reading guide for Bengali place names.
func BengaliGuide() Guide {
	return Guide{
		Vowels: []GuideRow{
			{Glyph: "অ", Reading: "a"}, {Glyph: "আ", Reading: "ā"},
			{Glyph: "ই", Reading: "i"}, {Glyph: "ঈ", Reading: "ī"},
			{Glyph: "উ", Reading: "u"}, {Glyph: "ঊ", Reading: "ū"},
			{Glyph: "এ", Reading: "e"}, {Glyph: "ঐ", Reading: "oi"},
			{Glyph: "ও", Reading: "o"}, {Glyph: "ঔ", Reading: "ou"},
		},
		VowelSigns: []GuideRow{
			{Glyph: "া", Reading: "ā", Example: "কা kā"},
			{Glyph: "ি", Reading: "i", Example: "কি ki"},
			{Glyph: "ী", Reading: "ī", Example: "কী kī"},
			{Glyph: "ু", Reading: "u", Example: "কু ku"},
			{Glyph: "ূ", Reading: "ū", Example: "কূ kū"},
			{Glyph: "ো", Reading: "o", Example: "কো ko"},
			{Glyph: "ে", Reading: "e", Example: "কে ke"},
		},
		Consonants: []GuideRow{
			{Glyph: "ক", Reading: "k", Example: "কুমিল্লা"}, {Glyph: "খ", Reading: "kh", Example: "খুলনা"},
			{Glyph: "গ", Reading: "g"}, {Glyph: "ঘ", Reading: "gh"}, {Glyph: "ঙ", Reading: "ng"},
			{Glyph: "চ", Reading: "ch", Example: "চট্টগ্রাম"}, {Glyph: "ছ", Reading: "chh"},
			{Glyph: "জ", Reading: "j"}, {Glyph: "ঝ", Reading: "jh"}, {Glyph: "ঞ", Reading: "ny"},
			{Glyph: "ট", Reading: "ṭ"}, {Glyph: "ঠ", Reading: "ṭh"}, {Glyph: "ড", Reading: "ḍ"},
			{Glyph: "ঢ", Reading: "ḍh"}, {Glyph: "ণ", Reading: "ṇ"},
			{Glyph: "ত", Reading: "t"}, {Glyph: "থ", Reading: "th"}, {Glyph: "দ", Reading: "d"},
			{Glyph: "ধ", Reading: "dh"}, {Glyph: "ন", Reading: "n"},
			{Glyph: "প", Reading: "p"}, {Glyph: "ফ", Reading: "ph", Example: "ফেনী"},
			{Glyph: "ব", Reading: "b"}, {Glyph: "ভ", Reading: "bh"}, {Glyph: "ম", Reading: "m"},
			{Glyph: "য/য়", Reading: "y"}, {Glyph: "র", Reading: "r"}, {Glyph: "ল", Reading: "l"},
			{Glyph: "শ/ষ/স", Reading: "sh/sh/s"}, {Glyph: "হ", Reading: "h"},
		},
		SuffixNotes: []string{
			"পুর/-পুর (pur) … 町・都市（Faridpur 等）",
			"গঞ্জ/-গঞ্জ (ganj) … 市・マーケット起源（Narayanganj 等）",
			"বাজার (bāzār) … 市場（Cox's Bazar）",
		},
		Variants: []string{
			"Chattogram ↔ Chittagong",
			"Bogura ↔ Bogra",
			"Barishal ↔ Barisal",
			"Jashore ↔ Jessore",
		},
	}
}
