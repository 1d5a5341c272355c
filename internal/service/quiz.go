package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/placename-quiz-bot/internal/repository"
	"github.com/aliskhannn/placename-quiz-bot/internal/storage"
)

var (
	ErrSessionNotFound  = storage.ErrSessionNotFound
	ErrCatalogNotLoaded = errors.New("catalog is still loading")
	ErrStaleLoad        = errors.New("catalog load superseded by a newer request")
	ErrEmptyAnswer      = errors.New("empty answer")
)

// AnswerResult describes a graded attempt.
type AnswerResult struct {
	Verdict     entities.Verdict
	Question    *entities.Question
	Target      entities.Place // the correct place
	PickedIndex int            // position of the picked choice, -1 for free text
	MessageID   int            // chat message showing the question, 0 if unknown
}

// CorrectText returns the primary answer of the correct place.
func (r *AnswerResult) CorrectText() string {
	return r.Target.PrimaryAnswer
}

// QuizService runs quiz sessions: catalog loading per language, question
// generation and grading. Sessions are keyed by chat ID.
type QuizService struct {
	sessions    SessionStorage
	loader      CatalogLoader
	prefs       *PreferenceService
	generator   *QuizGenerator
	grader      *Grader
	catalogBase string
	logger      *zap.Logger
}

// NewQuizService creates a new QuizService. catalogBase is the URL prefix or
// directory that language catalog files are read from.
func NewQuizService(
	sessions SessionStorage,
	loader CatalogLoader,
	prefs *PreferenceService,
	generator *QuizGenerator,
	grader *Grader,
	catalogBase string,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		sessions:    sessions,
		loader:      loader,
		prefs:       prefs,
		generator:   generator,
		grader:      grader,
		catalogBase: catalogBase,
		logger:      logger,
	}
}

// StartSession creates a fresh session for the chat with the user's stored
// preferences. The catalog still has to be requested with RequestCatalog.
func (s *QuizService) StartSession(ctx context.Context, chatID, userID int64) *entities.Session {
	prefs := s.prefs.Load(ctx, userID)
	session := entities.NewSession(chatID, userID, prefs)
	if prev, ok := s.sessions.Get(chatID); ok {
		// Loads requested by the replaced session must stay stale.
		session.LoadSeq = prev.LoadSeq + 1
	}
	s.sessions.Create(session)

	s.logger.Info("session started",
		zap.Int64("chat_id", chatID),
		zap.Int64("user_id", userID),
		zap.String("language", prefs.Language),
	)

	return session.Clone()
}

// EnsureSession returns the chat session, starting one if needed.
// created reports whether a new session was started.
func (s *QuizService) EnsureSession(ctx context.Context, chatID, userID int64) (session *entities.Session, created bool) {
	if existing, ok := s.sessions.Get(chatID); ok {
		return existing, false
	}
	return s.StartSession(ctx, chatID, userID), true
}

// Session returns a snapshot of the chat session.
func (s *QuizService) Session(chatID int64) (*entities.Session, bool) {
	return s.sessions.Get(chatID)
}

// CatalogLoad is a pending catalog fetch returned by RequestLanguage.
type CatalogLoad func(ctx context.Context) (entities.Language, error)

// RequestCatalog is RequestLanguage for the session's current language.
func (s *QuizService) RequestCatalog(ctx context.Context, chatID int64) (CatalogLoad, error) {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.RequestLanguage(ctx, chatID, session.Language)
}

// RequestLanguage switches the session language and supersedes every load
// requested before. The returned CatalogLoad performs the fetch outside the
// storage lock. If another load is requested for the chat before it
// finishes, its result is dropped and ErrStaleLoad is returned.
func (s *QuizService) RequestLanguage(ctx context.Context, chatID int64, key string) (CatalogLoad, error) {
	lang := entities.ResolveLanguage(key)

	var (
		seq     uint64
		userID  int64
		changed bool
	)
	err := s.sessions.Update(chatID, func(session *entities.Session) error {
		session.LoadSeq++
		seq = session.LoadSeq
		userID = session.UserID
		changed = session.Language != lang.Key

		session.Language = lang.Key
		session.Preferences.Language = lang.Key
		if changed {
			session.Catalog = nil
			session.Round = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		if err := s.prefs.SaveLanguage(ctx, userID, lang.Key); err != nil {
			s.logger.Error("failed to save language", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	return func(ctx context.Context) (entities.Language, error) {
		return lang, s.finishLoad(ctx, chatID, lang, seq)
	}, nil
}

func (s *QuizService) finishLoad(ctx context.Context, chatID int64, lang entities.Language, seq uint64) error {
	places, loadErr := s.loader.Load(ctx, repository.CatalogSource(s.catalogBase, lang))

	stale := false
	err := s.sessions.Update(chatID, func(session *entities.Session) error {
		if session.LoadSeq != seq || session.Language != lang.Key {
			stale = true
			return nil
		}

		session.Round = nil
		if loadErr != nil {
			session.Catalog = nil
			session.LoadFailed = true
			return nil
		}

		session.Catalog = places
		session.LoadFailed = false
		return nil
	})
	if err != nil {
		return err
	}

	if stale {
		s.logger.Debug("discarding stale catalog load",
			zap.Int64("chat_id", chatID),
			zap.String("language", lang.Key),
			zap.Uint64("seq", seq),
		)
		return ErrStaleLoad
	}

	if loadErr != nil {
		return loadErr
	}

	s.logger.Debug("catalog applied",
		zap.Int64("chat_id", chatID),
		zap.String("language", lang.Key),
		zap.Int("places", len(places)),
	)
	return nil
}

// NextQuestion replaces the current round with a new question.
func (s *QuizService) NextQuestion(chatID int64) (*entities.Question, error) {
	var q *entities.Question

	err := s.sessions.Update(chatID, func(session *entities.Session) error {
		if session.LoadFailed {
			return repository.ErrDataUnavailable
		}
		if session.Catalog == nil {
			return ErrCatalogNotLoaded
		}

		next, err := s.generator.Generate(session.Catalog, session.Preferences.Importance)
		if err != nil {
			return err
		}

		q = next
		session.Round = entities.NewRound(next)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return q, nil
}

// AttachMessage records the chat message that shows the question. It is a
// no-op once a newer question has replaced the one with questionID.
func (s *QuizService) AttachMessage(chatID int64, questionID string, messageID int) error {
	return s.sessions.Update(chatID, func(session *entities.Session) error {
		if session.Round != nil && session.Round.Question.ID == questionID {
			session.Round.MessageID = messageID
		}
		return nil
	})
}

// AnswerChoice grades the pick of choice index for the question with questionID.
// Picks for a question that is no longer current, or already answered, yield
// entities.ErrInvalidAttempt.
func (s *QuizService) AnswerChoice(chatID int64, questionID string, index int) (*AnswerResult, error) {
	var res *AnswerResult

	err := s.sessions.Update(chatID, func(session *entities.Session) error {
		r := session.Round
		if r == nil || r.Question.ID != questionID {
			return entities.ErrInvalidAttempt
		}
		if index < 0 || index >= len(r.Question.Choices) {
			return entities.ErrInvalidAttempt
		}

		v, err := s.grader.GradeChoice(r, r.Question.Choices[index].ID)
		if err != nil {
			return err
		}

		target, _ := entities.FindPlace(session.Catalog, r.Question.TargetID)
		res = &AnswerResult{
			Verdict:     v,
			Question:    r.Question,
			Target:      target,
			PickedIndex: index,
			MessageID:   r.MessageID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// AnswerText grades free text against the current question.
func (s *QuizService) AnswerText(chatID int64, raw string) (*AnswerResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyAnswer
	}

	var res *AnswerResult

	err := s.sessions.Update(chatID, func(session *entities.Session) error {
		r := session.Round
		if r == nil {
			return entities.ErrInvalidAttempt
		}

		target, ok := entities.FindPlace(session.Catalog, r.Question.TargetID)
		if !ok {
			return fmt.Errorf("target place %q not in catalog", r.Question.TargetID)
		}

		v, err := s.grader.GradeText(r, target, raw)
		if err != nil {
			return err
		}

		res = &AnswerResult{
			Verdict:     v,
			Question:    r.Question,
			Target:      target,
			PickedIndex: -1,
			MessageID:   r.MessageID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// ImportanceCounts returns the number of catalog places per tier.
func (s *QuizService) ImportanceCounts(chatID int64) (map[entities.Importance]int, error) {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	counts := make(map[entities.Importance]int, len(entities.AllImportances))
	for _, t := range entities.AllImportances {
		counts[t] = 0
	}
	for _, p := range session.Catalog {
		counts[p.Tier()]++
	}
	return counts, nil
}

// ToggleReadings flips the reading hint preference and returns the new value.
func (s *QuizService) ToggleReadings(ctx context.Context, chatID int64) (bool, error) {
	var (
		show   bool
		userID int64
	)
	err := s.sessions.Update(chatID, func(session *entities.Session) error {
		session.Preferences.ShowReadings = !session.Preferences.ShowReadings
		show = session.Preferences.ShowReadings
		userID = session.UserID
		return nil
	})
	if err != nil {
		return false, err
	}

	return show, s.prefs.SaveShowReadings(ctx, userID, show)
}

// SetMode switches the answer mode. The current round is dropped so the
// next question starts unanswered in the new mode.
func (s *QuizService) SetMode(ctx context.Context, chatID int64, mode entities.AnswerMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown answer mode: %s", mode)
	}

	var userID int64
	err := s.sessions.Update(chatID, func(session *entities.Session) error {
		session.Preferences.Mode = mode
		session.Round = nil
		userID = session.UserID
		return nil
	})
	if err != nil {
		return err
	}

	return s.prefs.SaveMode(ctx, userID, mode)
}

// ResetPreferences forgets the user's stored preferences and restores the
// defaults. The selected language is kept. The current round is dropped.
func (s *QuizService) ResetPreferences(ctx context.Context, chatID int64) (entities.Preferences, error) {
	var (
		prefs  entities.Preferences
		userID int64
	)
	err := s.sessions.Update(chatID, func(session *entities.Session) error {
		prefs = entities.DefaultPreferences()
		prefs.Language = session.Language
		session.Preferences = prefs
		session.Round = nil
		userID = session.UserID
		return nil
	})
	if err != nil {
		return entities.Preferences{}, err
	}

	if err := s.prefs.Reset(ctx, userID); err != nil {
		return prefs, err
	}
	if prefs.Language != entities.DefaultLanguageKey {
		if err := s.prefs.SaveLanguage(ctx, userID, prefs.Language); err != nil {
			return prefs, err
		}
	}

	s.logger.Info("preferences reset", zap.Int64("chat_id", chatID), zap.Int64("user_id", userID))
	return prefs, nil
}

// ToggleImportance flips one tier of the importance filter and returns the
// result. Like SetMode it drops the current round.
func (s *QuizService) ToggleImportance(ctx context.Context, chatID int64, tier entities.Importance) (entities.ImportanceFilter, error) {
	return s.updateImportance(ctx, chatID, func(f entities.ImportanceFilter) entities.ImportanceFilter {
		return f.Toggle(tier)
	})
}

// ResetImportance selects every tier.
func (s *QuizService) ResetImportance(ctx context.Context, chatID int64) (entities.ImportanceFilter, error) {
	return s.updateImportance(ctx, chatID, func(entities.ImportanceFilter) entities.ImportanceFilter {
		return entities.NewImportanceFilter(entities.AllImportances...)
	})
}

func (s *QuizService) updateImportance(
	ctx context.Context,
	chatID int64,
	fn func(entities.ImportanceFilter) entities.ImportanceFilter,
) (entities.ImportanceFilter, error) {
	var (
		filter entities.ImportanceFilter
		userID int64
	)
	err := s.sessions.Update(chatID, func(session *entities.Session) error {
		session.Preferences.Importance = fn(session.Preferences.Importance)
		filter = session.Preferences.Importance.Clone()
		// The question may come from a tier that is no longer selected.
		session.Round = nil
		userID = session.UserID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return filter, s.prefs.SaveImportance(ctx, userID, filter)
}
