package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/kirillkom/style-sage/internal/core/domain"
	"github.com/kirillkom/style-sage/internal/core/session"
	"github.com/kirillkom/style-sage/internal/infrastructure/analysisapi"
)

func submitFromStore(t *testing.T, baseURL string, store *session.Store) domain.Outcome {
	t.Helper()
	controller := NewSubmissionController(analysisapi.New(baseURL), store, 0, nil)
	state := store.State()
	sub := controller.Submit(context.Background(), state.Survey, state.File)
	waitOutcome(t, sub)
	return store.State().Outcome
}

func TestSubmitWithoutPhotoShowsUploadPrompt(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer server.Close()

	outcome := submitFromStore(t, server.URL, session.NewStore())
	if outcome != domain.Failure("Please upload an outfit photo first.") {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if called {
		t.Fatalf("no request may reach the service without a photo")
	}
}

func TestSubmitRendersServiceResult(t *testing.T) {
	var receivedSurvey domain.Survey
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.Unmarshal([]byte(r.FormValue(analysisapi.SurveyField)), &receivedSurvey); err != nil {
			t.Errorf("decode survey_json: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"dominant_colors":[{"rgb":[10,10,10],"hex":"#0a0a0a","proportion":0.6}],"brightness":40,"saturation":20,"palette_name":"Cool Neutrals","style_profile":{"recommended_styles":["Minimalist"],"why":{"palette_match":"...","occasions":["Work"],"goals":[]},"fit_tips":["..."],"starter_capsule":["..."]}}`))
	}))
	defer server.Close()

	store := session.NewStore()
	store.SelectFile(testPhoto())
	store.Toggle(domain.FieldPrimaryOccasions, "Work")
	store.Toggle(domain.FieldPrimaryOccasions, "Travel")

	outcome := submitFromStore(t, server.URL, store)
	if outcome.Kind != domain.OutcomeSuccess {
		t.Fatalf("expected success, got %+v", outcome)
	}
	want := &domain.AnalysisResult{
		DominantColors: []domain.DominantColor{{RGB: [3]int{10, 10, 10}, Hex: "#0a0a0a", Proportion: 0.6}},
		Brightness:     40,
		Saturation:     20,
		PaletteName:    "Cool Neutrals",
		StyleProfile: domain.StyleProfile{
			RecommendedStyles: []string{"Minimalist"},
			Why:               domain.Rationale{PaletteMatch: "...", Occasions: []string{"Work"}, Goals: []string{}},
			FitTips:           []string{"..."},
			StarterCapsule:    []string{"..."},
		},
	}
	if !reflect.DeepEqual(outcome.Result, want) {
		t.Fatalf("result not preserved:\n got %+v\nwant %+v", outcome.Result, want)
	}
	if !reflect.DeepEqual(receivedSurvey.PrimaryOccasions, []string{"Work", "Travel"}) || len(receivedSurvey.StyleGoals) != 0 {
		t.Fatalf("unexpected survey sent: %+v", receivedSurvey)
	}
}

func TestSubmitServerErrorShowsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := session.NewStore()
	store.SelectFile(testPhoto())

	outcome := submitFromStore(t, server.URL, store)
	if outcome != domain.Failure("API error") {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestSubmitUnreachableServiceShowsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	store := session.NewStore()
	store.SelectFile(testPhoto())

	outcome := submitFromStore(t, baseURL, store)
	if outcome.Kind != domain.OutcomeFailure || outcome.Message == "" || outcome.Message == domain.MsgAPIError {
		t.Fatalf("expected failure carrying the transport message, got %+v", outcome)
	}
}

func TestDoubleToggleSendsEmptyOccasions(t *testing.T) {
	store := session.NewStore()
	store.Toggle(domain.FieldPrimaryOccasions, "Work")
	state := store.Toggle(domain.FieldPrimaryOccasions, "Work")
	if len(state.Survey.PrimaryOccasions) != 0 {
		t.Fatalf("expected empty occasions, got %v", state.Survey.PrimaryOccasions)
	}
}
