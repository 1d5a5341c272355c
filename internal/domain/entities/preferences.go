package entities

// Preferences stores per-user quiz preferences.
type Preferences struct {
	ShowReadings bool             // render reading hints under the prompt
	Mode         AnswerMode       // multiple choice or free text
	Importance   ImportanceFilter // tiers eligible for sampling
	Language     string           // selected language key
}

// DefaultPreferences returns the preferences used when nothing is stored.
func DefaultPreferences() Preferences {
	return Preferences{
		ShowReadings: true,
		Mode:         ModeChoice,
		Importance:   DefaultImportanceFilter(),
		Language:     DefaultLanguageKey,
	}
}
