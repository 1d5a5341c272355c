package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
)

// Preference keys.
const (
	keyShowReadings = "showReadings"
	keyAnswerMode   = "answerMode"
	keyImportance   = "importance"
	keyLanguage     = "language"
)

// PreferenceService reads and writes user preferences, falling back to defaults.
type PreferenceService struct {
	store  KeyValueStore
	logger *zap.Logger
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(store KeyValueStore, logger *zap.Logger) *PreferenceService {
	return &PreferenceService{
		store:  store,
		logger: logger,
	}
}

// Load returns the stored preferences of a user in one read. Missing or
// unreadable values keep their defaults; read failures are logged and never
// returned.
func (s *PreferenceService) Load(ctx context.Context, userID int64) entities.Preferences {
	prefs := entities.DefaultPreferences()

	stored, err := s.store.GetAll(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to read preferences",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return prefs
	}

	if v, ok := stored[keyShowReadings]; ok {
		prefs.ShowReadings = v == "1"
	}

	if v, ok := stored[keyAnswerMode]; ok {
		if m := entities.AnswerMode(v); m.Valid() {
			prefs.Mode = m
		}
	}

	if v, ok := stored[keyImportance]; ok {
		f, err := entities.ParseImportanceFilter(v)
		if err != nil {
			s.logger.Warn("invalid stored importance filter",
				zap.Int64("user_id", userID),
				zap.String("value", v),
				zap.Error(err),
			)
		} else if len(f) > 0 {
			prefs.Importance = f
		}
	}

	if v, ok := stored[keyLanguage]; ok {
		prefs.Language = entities.ResolveLanguage(v).Key
	}

	return prefs
}

// Reset forgets every stored preference of a user.
func (s *PreferenceService) Reset(ctx context.Context, userID int64) error {
	if err := s.store.Reset(ctx, userID); err != nil {
		return fmt.Errorf("reset preferences: %w", err)
	}
	return nil
}

// SaveShowReadings persists the reading hint flag.
func (s *PreferenceService) SaveShowReadings(ctx context.Context, userID int64, show bool) error {
	v := "0"
	if show {
		v = "1"
	}
	return s.set(ctx, userID, keyShowReadings, v)
}

// SaveMode persists the answer mode.
func (s *PreferenceService) SaveMode(ctx context.Context, userID int64, mode entities.AnswerMode) error {
	return s.set(ctx, userID, keyAnswerMode, string(mode))
}

// SaveImportance persists the importance filter.
func (s *PreferenceService) SaveImportance(ctx context.Context, userID int64, f entities.ImportanceFilter) error {
	return s.set(ctx, userID, keyImportance, f.String())
}

// SaveLanguage persists the selected language.
func (s *PreferenceService) SaveLanguage(ctx context.Context, userID int64, lang string) error {
	return s.set(ctx, userID, keyLanguage, lang)
}

func (s *PreferenceService) set(ctx context.Context, userID int64, key, value string) error {
	if err := s.store.Set(ctx, userID, key, value); err != nil {
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}
