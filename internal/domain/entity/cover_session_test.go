package entity

import (
	"errors"
	"testing"
	"time"
)

func newTestSession() GenerationSession {
	return NewGenerationSession("sess-1", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
}

func mustSubmit(t *testing.T, s GenerationSession) GenerationSession {
	t.Helper()
	record := ArticleRecord{Title: "Quantum Coherence in Photosynthesis", Content: "We report long-lived coherence."}
	next, err := s.BeginGeneration(record, DefaultGenerationConfig(), "tok-1")
	if err != nil {
		t.Fatalf("BeginGeneration: %v", err)
	}
	return next
}

func mustComplete(t *testing.T, s GenerationSession) GenerationSession {
	t.Helper()
	s, err := s.PromptReady("a luminous chloroplast")
	if err != nil {
		t.Fatalf("PromptReady: %v", err)
	}
	s, err = s.CompleteGeneration("data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("CompleteGeneration: %v", err)
	}
	return s
}

func TestNewGenerationSessionDefaults(t *testing.T) {
	s := newTestSession()

	if s.Status != SessionStatusIdle {
		t.Errorf("Status = %q, want idle", s.Status)
	}
	if s.EditorMode != ModeEdit {
		t.Errorf("EditorMode = %q, want edit", s.EditorMode)
	}
	if s.Layout != DefaultLayout() {
		t.Errorf("Layout = %+v, want defaults", s.Layout)
	}
	if s.Metadata.JournalName != "JOURNAL" {
		t.Errorf("JournalName = %q, want placeholder", s.Metadata.JournalName)
	}
	if s.Config.Model != ImageModelFast {
		t.Errorf("Config.Model = %q, want fast default", s.Config.Model)
	}
	if s.Exporting {
		t.Error("new session must not be exporting")
	}
}

func TestGenerationLifecycle(t *testing.T) {
	s := newTestSession()

	s = mustSubmit(t, s)
	if s.Status != SessionStatusAnalyzing {
		t.Fatalf("after submit: Status = %q, want analyzing", s.Status)
	}
	if s.OpToken != "tok-1" {
		t.Errorf("OpToken = %q, want tok-1", s.OpToken)
	}

	s, err := s.PromptReady("a luminous chloroplast")
	if err != nil {
		t.Fatalf("PromptReady: %v", err)
	}
	if s.Status != SessionStatusGenerating {
		t.Fatalf("after prompt: Status = %q, want generating", s.Status)
	}
	if s.GeneratedPrompt != "a luminous chloroplast" {
		t.Errorf("GeneratedPrompt = %q", s.GeneratedPrompt)
	}

	s, err = s.CompleteGeneration("data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("CompleteGeneration: %v", err)
	}
	if s.Status != SessionStatusCompleted {
		t.Fatalf("after image: Status = %q, want completed", s.Status)
	}
	if s.GeneratedImage == "" {
		t.Error("GeneratedImage empty after completion")
	}
}

func TestInvalidTransitions(t *testing.T) {
	idle := newTestSession()
	analyzing := mustSubmit(t, newTestSession())
	completed := mustComplete(t, analyzing)
	failed, _ := analyzing.Fail("backend unavailable")

	tests := []struct {
		name string
		run  func() error
	}{
		{"submit while analyzing", func() error {
			_, err := analyzing.BeginGeneration(ArticleRecord{Title: "t", Content: "c"}, DefaultGenerationConfig(), "tok-2")
			return err
		}},
		{"prompt while idle", func() error {
			_, err := idle.PromptReady("p")
			return err
		}},
		{"complete while idle", func() error {
			_, err := idle.CompleteGeneration("img")
			return err
		}},
		{"complete while error", func() error {
			_, err := failed.CompleteGeneration("img")
			return err
		}},
		{"refine while idle", func() error {
			_, err := idle.BeginRefinement("tok-2")
			return err
		}},
		{"refine while analyzing", func() error {
			_, err := analyzing.BeginRefinement("tok-2")
			return err
		}},
		{"complete refinement while completed", func() error {
			_, err := completed.CompleteRefinement("img")
			return err
		}},
		{"fail while idle", func() error {
			_, err := idle.Fail("boom")
			return err
		}},
		{"fail while completed", func() error {
			_, err := completed.Fail("boom")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("err = %v, want ErrInvalidTransition", err)
			}
		})
	}
}

func TestSubmitClearsPreviousResult(t *testing.T) {
	s := mustComplete(t, mustSubmit(t, newTestSession()))

	s, err := s.BeginGeneration(ArticleRecord{Title: "Second Paper", Content: "content"}, DefaultGenerationConfig(), "tok-2")
	if err != nil {
		t.Fatalf("resubmit from completed: %v", err)
	}
	if s.GeneratedImage != "" {
		t.Error("GeneratedImage must be cleared on a new submission")
	}
	if s.GeneratedPrompt != "" {
		t.Error("GeneratedPrompt must be cleared on a new submission")
	}
	if s.OpToken != "tok-2" {
		t.Errorf("OpToken = %q, want tok-2", s.OpToken)
	}
}

func TestRefinementFailureKeepsImage(t *testing.T) {
	s := mustComplete(t, mustSubmit(t, newTestSession()))
	image := s.GeneratedImage

	s, err := s.BeginRefinement("tok-2")
	if err != nil {
		t.Fatalf("BeginRefinement: %v", err)
	}
	if s.Status != SessionStatusRefining {
		t.Fatalf("Status = %q, want refining", s.Status)
	}

	s, err = s.Fail("model returned no image data")
	if err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if s.Status != SessionStatusError {
		t.Errorf("Status = %q, want error", s.Status)
	}
	if s.GeneratedImage != image {
		t.Error("refinement failure must keep the last successful image")
	}
	if s.ErrorMessage == "" {
		t.Error("ErrorMessage empty after failure")
	}
}

func TestRefinementRequiresImage(t *testing.T) {
	s := mustComplete(t, mustSubmit(t, newTestSession()))
	s.GeneratedImage = ""

	if _, err := s.BeginRefinement("tok-2"); !errors.Is(err, ErrNoGeneratedImage) {
		t.Errorf("err = %v, want ErrNoGeneratedImage", err)
	}
}

func TestResetKeepsLayoutAndMetadata(t *testing.T) {
	s := mustComplete(t, mustSubmit(t, newTestSession()))
	s.Layout = s.Layout.WithPosition(GroupTag, Position{X: 40, Y: 70})
	s.Metadata, _ = s.Metadata.WithField(FieldWebsite, "www.example.org")
	s.FontOffsets = s.FontOffsets.With(FieldTitle, 2)

	s = s.Reset()

	if s.Status != SessionStatusIdle {
		t.Errorf("Status = %q, want idle", s.Status)
	}
	if s.GeneratedImage != "" || s.GeneratedPrompt != "" {
		t.Error("reset must clear generated artifacts")
	}
	if s.Record.Title != "" {
		t.Error("reset must clear the article record")
	}
	if got, _ := s.Layout.Position(GroupTag); got != (Position{X: 40, Y: 70}) {
		t.Errorf("layout lost on reset: %+v", got)
	}
	if s.Metadata.Website != "www.example.org" {
		t.Error("metadata lost on reset")
	}
	if s.FontOffsets.Get(FieldTitle) != 2 {
		t.Error("font offsets lost on reset")
	}
}

func TestResetFromErrorAllowsResubmit(t *testing.T) {
	s := mustSubmit(t, newTestSession())
	s, _ = s.Fail("backend unavailable")

	s = s.Reset()
	if !s.CanSubmit() {
		t.Fatal("session must accept submissions after reset")
	}
	if _, err := s.BeginGeneration(ArticleRecord{Title: "t", Content: "c"}, DefaultGenerationConfig(), "tok-3"); err != nil {
		t.Errorf("submit after reset: %v", err)
	}
}

func TestRetryDirectlyFromError(t *testing.T) {
	s := mustSubmit(t, newTestSession())
	s, _ = s.Fail("backend unavailable")

	s, err := s.BeginGeneration(ArticleRecord{Title: "t", Content: "c"}, DefaultGenerationConfig(), "tok-3")
	if err != nil {
		t.Fatalf("resubmit from error: %v", err)
	}
	if s.Status != SessionStatusAnalyzing {
		t.Errorf("Status = %q, want analyzing", s.Status)
	}
	if s.ErrorMessage != "" {
		t.Error("resubmit must clear the previous error message")
	}
}

func TestRefineRetryAfterRefineFailure(t *testing.T) {
	s := mustComplete(t, mustSubmit(t, newTestSession()))
	image := s.GeneratedImage

	s, err := s.BeginRefinement("tok-2")
	if err != nil {
		t.Fatalf("BeginRefinement: %v", err)
	}
	s, _ = s.Fail("model returned no image data")

	s, err = s.BeginRefinement("tok-3")
	if err != nil {
		t.Fatalf("refine retry from error: %v", err)
	}
	if s.Status != SessionStatusRefining {
		t.Errorf("Status = %q, want refining", s.Status)
	}
	if s.GeneratedImage != image {
		t.Error("retry must start from the preserved image")
	}
}

func TestRefineFromErrorWithoutImage(t *testing.T) {
	s := mustSubmit(t, newTestSession())
	s, _ = s.Fail("backend unavailable")

	if _, err := s.BeginRefinement("tok-2"); !errors.Is(err, ErrNoGeneratedImage) {
		t.Errorf("err = %v, want ErrNoGeneratedImage", err)
	}
}

func TestBeginExportFreezesEditor(t *testing.T) {
	s := mustComplete(t, mustSubmit(t, newTestSession()))
	s, _ = s.WithMode(ModeLayout)
	s, _ = s.BeginDrag(GroupHeader, 10, 10)

	s, err := s.BeginExport()
	if err != nil {
		t.Fatalf("BeginExport: %v", err)
	}
	if !s.Exporting {
		t.Error("Exporting flag not set")
	}
	if s.EditorMode != ModeEdit {
		t.Errorf("EditorMode = %q, want edit forced during export", s.EditorMode)
	}
	if s.FocusedField != "" || s.Drag.Active {
		t.Error("export must clear focus and in-flight drag")
	}

	s = s.EndExport(ModeLayout)
	if s.Exporting {
		t.Error("Exporting flag not cleared")
	}
	if s.EditorMode != ModeLayout {
		t.Errorf("EditorMode = %q, want prior mode restored", s.EditorMode)
	}
}

func TestExportExcludesPipelineOperations(t *testing.T) {
	exporting, err := mustComplete(t, mustSubmit(t, newTestSession())).BeginExport()
	if err != nil {
		t.Fatalf("BeginExport: %v", err)
	}

	if _, err := exporting.BeginGeneration(ArticleRecord{Title: "t", Content: "c"}, DefaultGenerationConfig(), "tok-2"); !errors.Is(err, ErrExportInProgress) {
		t.Errorf("submit during export: err = %v, want ErrExportInProgress", err)
	}
	if _, err := exporting.BeginRefinement("tok-2"); !errors.Is(err, ErrExportInProgress) {
		t.Errorf("refine during export: err = %v, want ErrExportInProgress", err)
	}
	if _, err := exporting.BeginExport(); !errors.Is(err, ErrExportInProgress) {
		t.Errorf("second export: err = %v, want ErrExportInProgress", err)
	}

	analyzing := mustSubmit(t, newTestSession())
	if _, err := analyzing.BeginExport(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("export while analyzing: err = %v, want ErrInvalidTransition", err)
	}
}

func TestWithMode(t *testing.T) {
	s := newTestSession()
	s = s.WithFocus(FieldTitle)

	s, err := s.WithMode(ModeLayout)
	if err != nil {
		t.Fatalf("WithMode(layout): %v", err)
	}
	if s.FocusedField != "" {
		t.Error("entering layout mode must clear field focus")
	}

	if _, err := s.WithMode("preview"); err == nil {
		t.Error("unknown mode accepted")
	}
}

func TestSubmitMergesRecordIntoMetadata(t *testing.T) {
	s := newTestSession()
	record := ArticleRecord{
		Title:       "Deep Learning for Protein Folding",
		Content:     "abstract text",
		Authors:     "J. Smith, L. Wei",
		JournalName: "Nature Methods",
	}

	s, err := s.BeginGeneration(record, DefaultGenerationConfig(), "tok-1")
	if err != nil {
		t.Fatalf("BeginGeneration: %v", err)
	}
	if s.Metadata.Title != record.Title {
		t.Errorf("Metadata.Title = %q", s.Metadata.Title)
	}
	if s.Metadata.JournalName != "NATURE METHODS" {
		t.Errorf("Metadata.JournalName = %q, want upper-cased", s.Metadata.JournalName)
	}
	if s.Metadata.Authors != record.Authors {
		t.Errorf("Metadata.Authors = %q", s.Metadata.Authors)
	}
	// 记录未携带的字段保持默认
	if s.Metadata.Website != DefaultCoverMetadata(time.Now()).Website {
		t.Errorf("Metadata.Website = %q, want default kept", s.Metadata.Website)
	}
}
