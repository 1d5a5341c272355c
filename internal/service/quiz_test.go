package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/placename-quiz-bot/internal/repository"
	"github.com/aliskhannn/placename-quiz-bot/internal/storage"
)

type mockLoader struct {
	load func(ctx context.Context, source string) ([]entities.Place, error)
}

func (m *mockLoader) Load(ctx context.Context, source string) ([]entities.Place, error) {
	return m.load(ctx, source)
}

type mockKV struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	setErr error
}

func newMockKV() *mockKV {
	return &mockKV{values: make(map[string]string)}
}

func (m *mockKV) GetAll(_ context.Context, _ int64) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *mockKV) Set(_ context.Context, _ int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockKV) Reset(context.Context, int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	return nil
}

func sampleCatalog() []entities.Place {
	return []entities.Place{
		{ID: "dhaka", NativeString: "ঢাকা", PrimaryAnswer: "Dhaka", Importance: tier(entities.ImportanceMajor)},
		{ID: "khulna", NativeString: "খুলনা", PrimaryAnswer: "Khulna", Importance: tier(entities.ImportanceMajor)},
		{ID: "ctg", NativeString: "চট্টগ্রাম", PrimaryAnswer: "Chattogram", AllowedAnswers: []string{"Chittagong"}, Importance: tier(entities.ImportanceMajor)},
		{ID: "bogura", NativeString: "বগুড়া", PrimaryAnswer: "Bogura", AllowedAnswers: []string{"Bogra"}, Importance: tier(entities.ImportanceRegional)},
		{ID: "feni", NativeString: "ফেনী", PrimaryAnswer: "Feni"},
	}
}

func newTestQuizService(loader CatalogLoader, kv KeyValueStore) *QuizService {
	return NewQuizService(
		storage.NewSessionStorage(),
		loader,
		NewPreferenceService(kv, zap.NewNop()),
		NewQuizGenerator(rand.New(rand.NewSource(1))),
		NewGrader(),
		"http://catalog.test/data",
		zap.NewNop(),
	)
}

func staticLoader(places []entities.Place) *mockLoader {
	return &mockLoader{load: func(context.Context, string) ([]entities.Place, error) {
		return places, nil
	}}
}

// loadCatalog requests the session catalog and waits for the load.
func loadCatalog(ctx context.Context, svc *QuizService, chatID int64) error {
	load, err := svc.RequestCatalog(ctx, chatID)
	if err != nil {
		return err
	}
	_, err = load(ctx)
	return err
}

func TestQuizService_FullRound(t *testing.T) {
	var gotSource string
	loader := &mockLoader{load: func(_ context.Context, source string) ([]entities.Place, error) {
		gotSource = source
		return sampleCatalog(), nil
	}}
	kv := newMockKV()
	kv.values[keyImportance] = "1,2,3"
	svc := newTestQuizService(loader, kv)
	ctx := context.Background()

	svc.StartSession(ctx, 10, 100)
	err := loadCatalog(ctx, svc, 10)
	require.NoError(t, err)
	assert.Equal(t, "http://catalog.test/data/bengali.json", gotSource)

	q, err := svc.NextQuestion(10)
	require.NoError(t, err)

	correct := q.ChoiceIndex(q.TargetID)
	require.GreaterOrEqual(t, correct, 0)

	res, err := svc.AnswerChoice(10, q.ID, correct)
	require.NoError(t, err)
	assert.True(t, res.Verdict.Correct)
	assert.Equal(t, q.TargetID, res.Target.ID)
	assert.Equal(t, q.CorrectText(), res.CorrectText())

	// A second pick is rejected and the verdict stays.
	_, err = svc.AnswerChoice(10, q.ID, (correct+1)%entities.ChoiceCount)
	assert.ErrorIs(t, err, entities.ErrInvalidAttempt)

	session, ok := svc.Session(10)
	require.True(t, ok)
	assert.True(t, session.Round.Verdict.Correct)

	// Free text is rejected too once answered.
	_, err = svc.AnswerText(10, "anything")
	assert.ErrorIs(t, err, entities.ErrInvalidAttempt)
}

func TestQuizService_StaleQuestionID(t *testing.T) {
	svc := newTestQuizService(staticLoader(sampleCatalog()), newMockKV())
	ctx := context.Background()

	svc.StartSession(ctx, 1, 1)
	err := loadCatalog(ctx, svc, 1)
	require.NoError(t, err)
	_, err = svc.ResetImportance(ctx, 1)
	require.NoError(t, err)

	old, err := svc.NextQuestion(1)
	require.NoError(t, err)
	_, err = svc.NextQuestion(1)
	require.NoError(t, err)

	_, err = svc.AnswerChoice(1, old.ID, 0)
	assert.ErrorIs(t, err, entities.ErrInvalidAttempt)

	_, err = svc.AnswerChoice(1, "nope", 9)
	assert.ErrorIs(t, err, entities.ErrInvalidAttempt)
}

func TestQuizService_AnswerText(t *testing.T) {
	catalog := []entities.Place{
		{ID: "ctg", NativeString: "চট্টগ্রাম", PrimaryAnswer: "Chattogram", AllowedAnswers: []string{"Chattogram", "Chittagong"}},
		{ID: "b", PrimaryAnswer: "Khulna"},
		{ID: "c", PrimaryAnswer: "Rajshahi"},
		{ID: "d", PrimaryAnswer: "Barisal"},
	}
	svc := newTestQuizService(staticLoader(catalog), newMockKV())
	ctx := context.Background()

	svc.StartSession(ctx, 1, 1)
	_, err := svc.ResetImportance(ctx, 1)
	require.NoError(t, err)
	err = loadCatalog(ctx, svc, 1)
	require.NoError(t, err)

	// Draw until the target is Chattogram.
	for {
		q, err := svc.NextQuestion(1)
		require.NoError(t, err)
		if q.TargetID == "ctg" {
			break
		}
	}

	_, err = svc.AnswerText(1, "   ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	res, err := svc.AnswerText(1, "chittagong")
	require.NoError(t, err)
	assert.True(t, res.Verdict.Correct)
	assert.Equal(t, -1, res.PickedIndex)
	assert.Equal(t, "Chattogram", res.CorrectText())
}

func TestQuizService_InsufficientDataAfterFilter(t *testing.T) {
	kv := newMockKV()
	kv.values[keyImportance] = "3"
	catalog := sampleCatalog()[:4]
	catalog[2].Importance = nil

	svc := newTestQuizService(staticLoader(catalog), kv)
	ctx := context.Background()

	svc.StartSession(ctx, 1, 1)
	err := loadCatalog(ctx, svc, 1)
	require.NoError(t, err)

	_, err = svc.NextQuestion(1)
	assert.ErrorIs(t, err, ErrInsufficientData)

	session, _ := svc.Session(1)
	assert.Nil(t, session.Round)
}

func TestQuizService_LoadFailure(t *testing.T) {
	loader := &mockLoader{load: func(context.Context, string) ([]entities.Place, error) {
		return nil, repository.ErrDataUnavailable
	}}
	svc := newTestQuizService(loader, newMockKV())
	ctx := context.Background()

	svc.StartSession(ctx, 1, 1)
	err := loadCatalog(ctx, svc, 1)
	assert.ErrorIs(t, err, repository.ErrDataUnavailable)

	_, err = svc.NextQuestion(1)
	assert.ErrorIs(t, err, repository.ErrDataUnavailable)
}

func TestQuizService_NotLoadedYet(t *testing.T) {
	svc := newTestQuizService(staticLoader(sampleCatalog()), newMockKV())

	_, err := svc.NextQuestion(1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	svc.StartSession(context.Background(), 1, 1)
	_, err = svc.NextQuestion(1)
	assert.ErrorIs(t, err, ErrCatalogNotLoaded)
}

func TestQuizService_StaleLoadDiscarded(t *testing.T) {
	first := make(chan struct{})
	release := make(chan struct{})
	stale := []entities.Place{
		{ID: "stale-1", PrimaryAnswer: "S1"},
		{ID: "stale-2", PrimaryAnswer: "S2"},
		{ID: "stale-3", PrimaryAnswer: "S3"},
		{ID: "stale-4", PrimaryAnswer: "S4"},
	}

	var calls int
	var mu sync.Mutex
	loader := &mockLoader{load: func(context.Context, string) ([]entities.Place, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		if n == 1 {
			close(first)
			<-release
			return stale, nil
		}
		return sampleCatalog(), nil
	}}
	svc := newTestQuizService(loader, newMockKV())
	ctx := context.Background()
	svc.StartSession(ctx, 1, 1)

	errCh := make(chan error, 1)
	go func() {
		err := loadCatalog(ctx, svc, 1)
		errCh <- err
	}()

	<-first
	newer, err := svc.RequestLanguage(ctx, 1, entities.DefaultLanguageKey)
	require.NoError(t, err)
	_, err = newer(ctx)
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-errCh, ErrStaleLoad)

	session, ok := svc.Session(1)
	require.True(t, ok)
	require.Len(t, session.Catalog, len(sampleCatalog()))
	assert.Equal(t, "dhaka", session.Catalog[0].ID)
}

func TestQuizService_Preferences(t *testing.T) {
	kv := newMockKV()
	svc := newTestQuizService(staticLoader(sampleCatalog()), kv)
	ctx := context.Background()

	session := svc.StartSession(ctx, 1, 1)
	assert.True(t, session.Preferences.ShowReadings)
	assert.Equal(t, entities.ModeChoice, session.Preferences.Mode)
	assert.Equal(t, "2,3", session.Preferences.Importance.String())

	show, err := svc.ToggleReadings(ctx, 1)
	require.NoError(t, err)
	assert.False(t, show)
	assert.Equal(t, "0", kv.values[keyShowReadings])

	require.NoError(t, svc.SetMode(ctx, 1, entities.ModeText))
	assert.Equal(t, "text", kv.values[keyAnswerMode])
	assert.Error(t, svc.SetMode(ctx, 1, entities.AnswerMode("bogus")))

	f, err := svc.ToggleImportance(ctx, 1, entities.ImportanceRegional)
	require.NoError(t, err)
	assert.Equal(t, "3", f.String())
	assert.Equal(t, "3", kv.values[keyImportance])

	// Deselecting the last tier selects every tier again.
	f, err = svc.ToggleImportance(ctx, 1, entities.ImportanceMajor)
	require.NoError(t, err)
	assert.True(t, f.Unrestricted())

	// A new session reads the stored values back.
	session = svc.StartSession(ctx, 1, 1)
	assert.False(t, session.Preferences.ShowReadings)
	assert.Equal(t, entities.ModeText, session.Preferences.Mode)
	assert.Equal(t, "1,2,3", session.Preferences.Importance.String())
}

func TestQuizService_PreferenceWriteError(t *testing.T) {
	kv := newMockKV()
	kv.setErr = errors.New("db down")
	svc := newTestQuizService(staticLoader(sampleCatalog()), kv)
	ctx := context.Background()

	svc.StartSession(ctx, 1, 1)
	show, err := svc.ToggleReadings(ctx, 1)
	assert.Error(t, err)
	// The session still reflects the toggle.
	assert.False(t, show)
	session, _ := svc.Session(1)
	assert.False(t, session.Preferences.ShowReadings)
}

func TestQuizService_ImportanceCounts(t *testing.T) {
	svc := newTestQuizService(staticLoader(sampleCatalog()), newMockKV())
	ctx := context.Background()

	svc.StartSession(ctx, 1, 1)
	err := loadCatalog(ctx, svc, 1)
	require.NoError(t, err)

	counts, err := svc.ImportanceCounts(1)
	require.NoError(t, err)
	assert.Equal(t, map[entities.Importance]int{
		entities.ImportanceMajor:    3,
		entities.ImportanceRegional: 1,
		entities.ImportanceMinor:    1,
	}, counts)
}

func TestQuizService_RequestLanguage_LatestWins(t *testing.T) {
	svc := newTestQuizService(staticLoader(sampleCatalog()), newMockKV())
	ctx := context.Background()
	svc.StartSession(ctx, 1, 1)

	older, err := svc.RequestCatalog(ctx, 1)
	require.NoError(t, err)
	newer, err := svc.RequestLanguage(ctx, 1, entities.DefaultLanguageKey)
	require.NoError(t, err)

	lang, err := newer(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultLanguageKey, lang.Key)

	_, err = older(ctx)
	assert.ErrorIs(t, err, ErrStaleLoad)

	q, err := svc.NextQuestion(1)
	require.NoError(t, err)
	assert.NotEmpty(t, q.ID)
}

func TestQuizService_RequestCatalog_NoSession(t *testing.T) {
	svc := newTestQuizService(staticLoader(sampleCatalog()), newMockKV())

	_, err := svc.RequestCatalog(context.Background(), 42)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizService_RestartKeepsPendingLoadStale(t *testing.T) {
	svc := newTestQuizService(staticLoader(sampleCatalog()), newMockKV())
	ctx := context.Background()
	svc.StartSession(ctx, 1, 1)

	pending, err := svc.RequestCatalog(ctx, 1)
	require.NoError(t, err)

	svc.StartSession(ctx, 1, 1)
	_, err = svc.RequestCatalog(ctx, 1)
	require.NoError(t, err)

	_, err = pending(ctx)
	assert.ErrorIs(t, err, ErrStaleLoad)

	session, _ := svc.Session(1)
	assert.Nil(t, session.Catalog)
}

func TestQuizService_RestartDiscardsPendingLoad(t *testing.T) {
	svc := newTestQuizService(staticLoader(sampleCatalog()), newMockKV())
	ctx := context.Background()
	svc.StartSession(ctx, 1, 1)

	pending, err := svc.RequestCatalog(ctx, 1)
	require.NoError(t, err)

	// No new request is made after the restart.
	svc.StartSession(ctx, 1, 1)

	_, err = pending(ctx)
	assert.ErrorIs(t, err, ErrStaleLoad)

	session, ok := svc.Session(1)
	require.True(t, ok)
	assert.Nil(t, session.Catalog)
	assert.False(t, session.LoadFailed)
}

func TestQuizService_ImportanceChangeDropsRound(t *testing.T) {
	svc := newTestQuizService(staticLoader(sampleCatalog()), newMockKV())
	ctx := context.Background()
	svc.StartSession(ctx, 1, 1)
	require.NoError(t, loadCatalog(ctx, svc, 1))

	q, err := svc.NextQuestion(1)
	require.NoError(t, err)

	_, err = svc.ToggleImportance(ctx, 1, entities.ImportanceMinor)
	require.NoError(t, err)

	session, _ := svc.Session(1)
	assert.Nil(t, session.Round)
	_, err = svc.AnswerChoice(1, q.ID, 0)
	assert.ErrorIs(t, err, entities.ErrInvalidAttempt)

	_, err = svc.NextQuestion(1)
	require.NoError(t, err)
	_, err = svc.ResetImportance(ctx, 1)
	require.NoError(t, err)
	session, _ = svc.Session(1)
	assert.Nil(t, session.Round)
}

func TestQuizService_AttachMessage(t *testing.T) {
	svc := newTestQuizService(staticLoader(sampleCatalog()), newMockKV())
	ctx := context.Background()
	svc.StartSession(ctx, 1, 1)
	require.NoError(t, loadCatalog(ctx, svc, 1))

	old, err := svc.NextQuestion(1)
	require.NoError(t, err)
	q, err := svc.NextQuestion(1)
	require.NoError(t, err)

	require.NoError(t, svc.AttachMessage(1, q.ID, 42))
	// A replaced question does not overwrite the current one.
	require.NoError(t, svc.AttachMessage(1, old.ID, 7))

	res, err := svc.AnswerChoice(1, q.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 42, res.MessageID)

	assert.ErrorIs(t, svc.AttachMessage(2, q.ID, 1), ErrSessionNotFound)
}

func TestQuizService_ResetPreferences(t *testing.T) {
	kv := newMockKV()
	kv.values[keyShowReadings] = "0"
	kv.values[keyAnswerMode] = "text"
	kv.values[keyImportance] = "1"
	svc := newTestQuizService(staticLoader(sampleCatalog()), kv)
	ctx := context.Background()

	session := svc.StartSession(ctx, 1, 1)
	require.Equal(t, entities.ModeText, session.Preferences.Mode)
	require.NoError(t, loadCatalog(ctx, svc, 1))
	_, err := svc.ResetImportance(ctx, 1)
	require.NoError(t, err)
	_, err = svc.NextQuestion(1)
	require.NoError(t, err)

	prefs, err := svc.ResetPreferences(ctx, 1)
	require.NoError(t, err)
	want := entities.DefaultPreferences()
	assert.Equal(t, want, prefs)
	assert.Empty(t, kv.values)

	session, _ = svc.Session(1)
	assert.Equal(t, want, session.Preferences)
	assert.Nil(t, session.Round)
	// The catalog stays loaded.
	assert.NotNil(t, session.Catalog)

	_, err = svc.ResetPreferences(ctx, 9)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
