package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
)

func TestPreferenceService_Defaults(t *testing.T) {
	svc := NewPreferenceService(newMockKV(), zap.NewNop())

	prefs := svc.Load(context.Background(), 1)
	assert.Equal(t, entities.DefaultPreferences(), prefs)
}

func TestPreferenceService_ReadErrorFallsBack(t *testing.T) {
	kv := newMockKV()
	kv.getErr = errors.New("connection refused")
	svc := NewPreferenceService(kv, zap.NewNop())

	prefs := svc.Load(context.Background(), 1)
	assert.Equal(t, entities.DefaultPreferences(), prefs)
}

func TestPreferenceService_InvalidValuesIgnored(t *testing.T) {
	kv := newMockKV()
	kv.values[keyAnswerMode] = "voice"
	kv.values[keyImportance] = "7"
	kv.values[keyLanguage] = "klingon"
	kv.values[keyShowReadings] = "0"
	svc := NewPreferenceService(kv, zap.NewNop())

	prefs := svc.Load(context.Background(), 1)
	assert.Equal(t, entities.ModeChoice, prefs.Mode)
	assert.Equal(t, "2,3", prefs.Importance.String())
	assert.Equal(t, entities.DefaultLanguageKey, prefs.Language)
	assert.False(t, prefs.ShowReadings)
}

func TestPreferenceService_RoundTrip(t *testing.T) {
	kv := newMockKV()
	svc := NewPreferenceService(kv, zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, svc.SaveShowReadings(ctx, 1, true))
	assert.NoError(t, svc.SaveMode(ctx, 1, entities.ModeText))
	assert.NoError(t, svc.SaveImportance(ctx, 1, entities.NewImportanceFilter(entities.ImportanceMinor)))

	prefs := svc.Load(ctx, 1)
	assert.True(t, prefs.ShowReadings)
	assert.Equal(t, entities.ModeText, prefs.Mode)
	assert.Equal(t, "1", prefs.Importance.String())
}

func TestPreferenceService_Reset(t *testing.T) {
	kv := newMockKV()
	svc := NewPreferenceService(kv, zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, svc.SaveMode(ctx, 1, entities.ModeText))
	assert.NoError(t, svc.Reset(ctx, 1))
	assert.Equal(t, entities.DefaultPreferences(), svc.Load(ctx, 1))
}
