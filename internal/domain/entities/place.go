// Package entities contains domain entities used across the application.
package entities

// Place is one record of a language catalog: a place name written in the
// native script together with the romanizations accepted as answers.
type Place struct {
	ID             string      `json:"id"`                   // unique within the catalog
	NativeString   string      `json:"native_string"`        // prompt shown to the user
	PrimaryAnswer  string      `json:"primary_answer"`       // canonical romanization
	AllowedAnswers []string    `json:"allowed_answers"`      // extra accepted romanizations
	Language       string      `json:"language,omitempty"`   // catalog language key
	Importance     *Importance `json:"importance,omitempty"` // nil means ImportanceMinor
	Lat            *float64    `json:"lat,omitempty"`
	Lng            *float64    `json:"lng,omitempty"`
}

// Tier returns the importance of the place, defaulting to ImportanceMinor.
func (p Place) Tier() Importance {
	if p.Importance == nil {
		return ImportanceMinor
	}
	return *p.Importance
}

// AcceptedAnswers returns the primary answer followed by the allowed ones.
func (p Place) AcceptedAnswers() []string {
	out := make([]string, 0, 1+len(p.AllowedAnswers))
	out = append(out, p.PrimaryAnswer)
	out = append(out, p.AllowedAnswers...)
	return out
}

// HasCoordinates reports whether the place can be shown on a map.
func (p Place) HasCoordinates() bool {
	return p.Lat != nil && p.Lng != nil
}

// FindPlace returns the place with the given id.
func FindPlace(catalog []Place, id string) (Place, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Place{}, false
}
