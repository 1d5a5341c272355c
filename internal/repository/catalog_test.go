package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
)

const validCatalog = `[
	{"id":"dhaka","native_string":"ঢাকা","primary_answer":"Dhaka","allowed_answers":[],"importance":3,"lat":23.81,"lng":90.41},
	{"id":"khulna","native_string":"খুলনা","primary_answer":"Khulna","allowed_answers":[],"importance":3},
	{"id":"ctg","native_string":"চট্টগ্রাম","primary_answer":"Chattogram","allowed_answers":["Chittagong"],"importance":3},
	{"id":"feni","native_string":"ফেনী","primary_answer":"Feni","allowed_answers":[]}
]`

func newTestLoader() *CatalogLoader {
	return NewCatalogLoader(nil, time.Second, zap.NewNop())
}

func TestCatalogLoader_LoadHTTP(t *testing.T) {
	var gotHeader http.Header
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		gotQuery = r.URL.Query().Get("_ts")
		_, _ = w.Write([]byte(validCatalog))
	}))
	defer srv.Close()

	places, err := newTestLoader().Load(context.Background(), srv.URL+"/data/bengali.json")
	require.NoError(t, err)
	require.Len(t, places, 4)

	assert.Contains(t, gotHeader.Get("Cache-Control"), "no-cache")
	assert.Equal(t, "no-cache", gotHeader.Get("Pragma"))
	assert.NotEmpty(t, gotQuery)

	assert.Equal(t, entities.ImportanceMajor, places[0].Tier())
	assert.True(t, places[0].HasCoordinates())
	assert.Equal(t, entities.ImportanceMinor, places[3].Tier())
	assert.False(t, places[3].HasCoordinates())
	assert.Equal(t, []string{"Chattogram", "Chittagong"}, places[2].AcceptedAnswers())
}

func TestCatalogLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bengali.json")
	require.NoError(t, os.WriteFile(path, []byte(validCatalog), 0o600))

	places, err := newTestLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, places, 4)
}

func TestCatalogLoader_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestLoader().Load(context.Background(), srv.URL+"/data/bengali.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestCatalogLoader_MissingFile(t *testing.T) {
	_, err := newTestLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestCatalogLoader_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html></html>`},
		{"object instead of array", `{"places":[]}`},
		{"null", `null`},
		{"too small", `[
			{"id":"a","primary_answer":"Dhaka"},
			{"id":"b","primary_answer":"Khulna"},
			{"id":"c","primary_answer":"Rajshahi"}
		]`},
		{"empty id", `[
			{"id":"","primary_answer":"Dhaka"},
			{"id":"b","primary_answer":"Khulna"},
			{"id":"c","primary_answer":"Rajshahi"},
			{"id":"d","primary_answer":"Barisal"}
		]`},
		{"empty primary answer", `[
			{"id":"a","primary_answer":" "},
			{"id":"b","primary_answer":"Khulna"},
			{"id":"c","primary_answer":"Rajshahi"},
			{"id":"d","primary_answer":"Barisal"}
		]`},
		{"duplicate id", `[
			{"id":"a","primary_answer":"Dhaka"},
			{"id":"a","primary_answer":"Khulna"},
			{"id":"c","primary_answer":"Rajshahi"},
			{"id":"d","primary_answer":"Barisal"}
		]`},
		{"bad importance", `[
			{"id":"a","primary_answer":"Dhaka","importance":4},
			{"id":"b","primary_answer":"Khulna"},
			{"id":"c","primary_answer":"Rajshahi"},
			{"id":"d","primary_answer":"Barisal"}
		]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCatalog([]byte(tt.body))
			require.Error(t, err)
		})
	}
}

func TestCatalogSource(t *testing.T) {
	lang := entities.ResolveLanguage("bengali")

	assert.Equal(t, "http://localhost:8080/data/bengali.json",
		CatalogSource("http://localhost:8080/data/", lang))
	assert.Equal(t, filepath.Join("assets", "data", "bengali.json"),
		CatalogSource(filepath.Join("assets", "data"), lang))
}

func TestCatalogLoader_ShippedCatalog(t *testing.T) {
	lang := entities.ResolveLanguage(entities.DefaultLanguageKey)

	places, err := newTestLoader().Load(context.Background(), CatalogSource("../../assets/data", lang))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(places), MinCatalogSize)

	for _, p := range places {
		if p.Tier() == entities.ImportanceMinor {
			assert.False(t, p.HasCoordinates(), p.ID)
		}
	}
}
