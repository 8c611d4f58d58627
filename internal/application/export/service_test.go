package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"journal-cover-ai-api/internal/config"
	"journal-cover-ai-api/internal/domain/entity"
	"journal-cover-ai-api/internal/infrastructure/imaging"
	"journal-cover-ai-api/internal/infrastructure/persistence/memory"
	pkgerrors "journal-cover-ai-api/pkg/errors"
)

func newTestService(t *testing.T, cfg config.ExportConfig) (*Service, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore(memory.Options{})
	compositor, err := imaging.NewCompositor()
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	if err := store.Create(context.Background(), entity.NewGenerationSession("s1", time.Now())); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return NewService(store, compositor, cfg), store
}

func tinyPNGDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 0xcc, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return imaging.EncodeDataURL(buf.Bytes())
}

func TestExportProducesA4PDF(t *testing.T) {
	svc, store := newTestService(t, config.ExportConfig{Density: 1, JPEGQuality: 60})
	ctx := context.Background()

	result, err := svc.Export(ctx, "s1")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if result.Filename != "JOURNAL_Cover.pdf" {
		t.Errorf("Filename = %q", result.Filename)
	}
	if !bytes.HasPrefix(result.Data, []byte("%PDF-1.4")) {
		t.Errorf("PDF header = %q", result.Data[:12])
	}
	body := string(result.Data)
	if !strings.Contains(body, "/MediaBox [0 0 595.28 841.89]") {
		t.Error("missing A4 MediaBox")
	}
	if !strings.Contains(body, "/Filter /DCTDecode") {
		t.Error("missing JPEG image object")
	}
	// 密度下限收敛到 3 倍参考画布
	if !strings.Contains(body, "/Width 2382") || !strings.Contains(body, "/Height 3369") {
		t.Error("raster not rendered at minimum print density")
	}

	session, _ := store.GetByID(ctx, "s1")
	if session.Exporting {
		t.Error("Exporting flag still set after export")
	}
	if session.EditorMode != entity.ModeEdit {
		t.Errorf("mode = %q, want edit restored", session.EditorMode)
	}
}

func TestExportUsesGeneratedImageAndJournalName(t *testing.T) {
	svc, store := newTestService(t, config.ExportConfig{Density: 3, JPEGQuality: 80})
	ctx := context.Background()

	dataURL := tinyPNGDataURL(t)
	if _, err := store.Update(ctx, "s1", func(s entity.GenerationSession) (entity.GenerationSession, error) {
		s.GeneratedImage = dataURL
		s.Metadata.JournalName = "Nature Methods"
		return s, nil
	}); err != nil {
		t.Fatalf("seed image: %v", err)
	}

	result, err := svc.Export(ctx, "s1")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Filename != "Nature_Methods_Cover.pdf" {
		t.Errorf("Filename = %q, want sanitized journal name", result.Filename)
	}
	if !strings.Contains(string(result.Data), "/Title (Nature Methods Cover)") {
		t.Error("missing document title")
	}
}

func TestExportRestoresLayoutMode(t *testing.T) {
	svc, store := newTestService(t, config.ExportConfig{Density: 1, JPEGQuality: 50})
	ctx := context.Background()

	if _, err := store.Update(ctx, "s1", func(s entity.GenerationSession) (entity.GenerationSession, error) {
		return s.WithMode(entity.ModeLayout)
	}); err != nil {
		t.Fatalf("enter layout mode: %v", err)
	}

	if _, err := svc.Export(ctx, "s1"); err != nil {
		t.Fatalf("Export: %v", err)
	}

	session, _ := store.GetByID(ctx, "s1")
	if session.EditorMode != entity.ModeLayout {
		t.Errorf("mode = %q, want layout restored", session.EditorMode)
	}
	if session.Exporting {
		t.Error("Exporting flag still set")
	}
}

func TestExportFailureStillRestores(t *testing.T) {
	svc, store := newTestService(t, config.ExportConfig{Density: 1, JPEGQuality: 50})
	ctx := context.Background()

	if _, err := store.Update(ctx, "s1", func(s entity.GenerationSession) (entity.GenerationSession, error) {
		s, err := s.WithMode(entity.ModeLayout)
		if err != nil {
			return s, err
		}
		s.GeneratedImage = "data:image/png;base64,%%%%"
		return s, nil
	}); err != nil {
		t.Fatalf("seed broken image: %v", err)
	}

	_, err := svc.Export(ctx, "s1")
	if !pkgerrors.IsCode(err, pkgerrors.CodeExportFailed) {
		t.Fatalf("err = %v, want ExportFailed", err)
	}

	session, _ := store.GetByID(ctx, "s1")
	if session.Exporting {
		t.Error("Exporting flag still set after failure")
	}
	if session.EditorMode != entity.ModeLayout {
		t.Errorf("mode = %q, want layout restored after failure", session.EditorMode)
	}
}

func TestExportBusyConflict(t *testing.T) {
	svc, store := newTestService(t, config.ExportConfig{Density: 1, JPEGQuality: 50})
	ctx := context.Background()

	if _, err := store.Update(ctx, "s1", func(s entity.GenerationSession) (entity.GenerationSession, error) {
		return s.BeginExport()
	}); err != nil {
		t.Fatalf("acquire export flag: %v", err)
	}

	_, err := svc.Export(ctx, "s1")
	if !pkgerrors.IsCode(err, pkgerrors.CodeExportBusy) {
		t.Fatalf("err = %v, want ExportBusy", err)
	}

	// 冲突请求不得清掉持有者的互斥标记
	session, _ := store.GetByID(ctx, "s1")
	if !session.Exporting {
		t.Error("Exporting flag cleared by conflicting request")
	}
}

func TestExportWhileGenerating(t *testing.T) {
	svc, store := newTestService(t, config.ExportConfig{Density: 1, JPEGQuality: 50})
	ctx := context.Background()

	if _, err := store.Update(ctx, "s1", func(s entity.GenerationSession) (entity.GenerationSession, error) {
		return s.BeginGeneration(entity.ArticleRecord{Title: "t", Content: "c"}, entity.DefaultGenerationConfig(), "tok-1")
	}); err != nil {
		t.Fatalf("move session to analyzing: %v", err)
	}

	_, err := svc.Export(ctx, "s1")
	if !pkgerrors.IsCode(err, pkgerrors.CodeSessionNotIdle) {
		t.Fatalf("err = %v, want SessionNotIdle", err)
	}

	session, _ := store.GetByID(ctx, "s1")
	if session.Exporting {
		t.Error("refused export must not leave the flag set")
	}
	if session.Status != entity.SessionStatusAnalyzing {
		t.Errorf("Status = %q, want analyzing untouched", session.Status)
	}
}

func TestExportMissingSession(t *testing.T) {
	svc, _ := newTestService(t, config.ExportConfig{Density: 1, JPEGQuality: 50})

	_, err := svc.Export(context.Background(), "ghost")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}
