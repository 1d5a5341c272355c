package entities

import "time"

// Session is the quiz state of one chat. It is owned by the session storage
// and only changed through it.
type Session struct {
	ChatID       int64
	UserID       int64
	Language     string      // currently selected language key
	Catalog      []Place     // read-only once loaded; nil until the first load finishes
	LoadSeq      uint64      // incremented by every catalog load request
	LoadFailed   bool        // the last applied load failed; only a new load clears it
	Round        *Round      // current question, nil before the first one
	Preferences  Preferences // snapshot read at session start
	LastActivity time.Time
}

// NewSession creates an empty session for a chat.
func NewSession(chatID, userID int64, prefs Preferences) *Session {
	return &Session{
		ChatID:       chatID,
		UserID:       userID,
		Language:     prefs.Language,
		Preferences:  prefs,
		LastActivity: time.Now(),
	}
}

// Touch updates the last activity timestamp.
func (s *Session) Touch() {
	s.LastActivity = time.Now()
}

// Clone returns a copy safe to read outside the storage lock.
// The catalog slice is shared since it is never mutated after loading.
func (s *Session) Clone() *Session {
	out := *s
	out.Preferences.Importance = s.Preferences.Importance.Clone()
	if s.Round != nil {
		r := *s.Round
		out.Round = &r
	}
	return &out
}
