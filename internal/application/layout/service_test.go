package layout

import (
	"context"
	"math"
	"testing"
	"time"

	"journal-cover-ai-api/internal/domain/entity"
	"journal-cover-ai-api/internal/infrastructure/persistence/memory"
	pkgerrors "journal-cover-ai-api/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore(memory.Options{})
	if err := store.Create(context.Background(), entity.NewGenerationSession("s1", time.Now())); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return NewService(store), store
}

func wantPosition(t *testing.T, got entity.Position, wantX, wantY float64) {
	t.Helper()
	if math.Abs(got.X-wantX) > 1e-9 || math.Abs(got.Y-wantY) > 1e-9 {
		t.Errorf("position = (%v, %v), want (%v, %v)", got.X, got.Y, wantX, wantY)
	}
}

func TestDragFlowMovesGroup(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SetMode(ctx, "s1", entity.ModeLayout); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	if _, err := svc.HandleDrag(ctx, "s1", DragEvent{
		Phase: DragPhaseBegin, Group: entity.GroupContent, PointerX: 100, PointerY: 100,
	}); err != nil {
		t.Fatalf("begin: %v", err)
	}

	session, err := svc.HandleDrag(ctx, "s1", DragEvent{
		Phase: DragPhaseMove, PointerX: 180, PointerY: 212.3,
		CanvasWidth: 800, CanvasHeight: 1123,
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	wantPosition(t, session.Layout.Content, 15, 72)

	if _, err := svc.HandleDrag(ctx, "s1", DragEvent{Phase: DragPhaseEnd}); err != nil {
		t.Fatalf("end: %v", err)
	}

	// 结束后的移动事件不再改变布局
	session, err = svc.HandleDrag(ctx, "s1", DragEvent{
		Phase: DragPhaseMove, PointerX: 500, PointerY: 500,
		CanvasWidth: 800, CanvasHeight: 1123,
	})
	if err != nil {
		t.Fatalf("move after end: %v", err)
	}
	wantPosition(t, session.Layout.Content, 15, 72)

	persisted, _ := store.GetByID(ctx, "s1")
	wantPosition(t, persisted.Layout.Content, 15, 72)
}

func TestDragRequiresLayoutMode(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.HandleDrag(context.Background(), "s1", DragEvent{
		Phase: DragPhaseBegin, Group: entity.GroupHeader, PointerX: 1, PointerY: 1,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidMode) {
		t.Fatalf("err = %v, want InvalidMode", err)
	}
}

func TestDragUnknownPhase(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.HandleDrag(context.Background(), "s1", DragEvent{Phase: DragPhase("hover")})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidParam) {
		t.Fatalf("err = %v, want InvalidParam", err)
	}
}

func TestDragMissingSession(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.HandleDrag(context.Background(), "ghost", DragEvent{Phase: DragPhaseEnd})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestSetModeRejectsUnknownMode(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SetMode(context.Background(), "s1", entity.EditorMode("preview"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidMode) {
		t.Fatalf("err = %v, want InvalidMode", err)
	}
}

func TestSetFocus(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	session, err := svc.SetFocus(ctx, "s1", entity.FieldTitle)
	if err != nil {
		t.Fatalf("SetFocus: %v", err)
	}
	if session.FocusedField != entity.FieldTitle {
		t.Errorf("FocusedField = %q", session.FocusedField)
	}

	if _, err := svc.SetFocus(ctx, "s1", entity.FieldName("banana")); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidParam) {
		t.Fatalf("err = %v, want InvalidParam", err)
	}

	// 空字段名清除焦点
	if _, err := svc.SetFocus(ctx, "s1", ""); err != nil {
		t.Fatalf("clear focus: %v", err)
	}
	persisted, _ := store.GetByID(ctx, "s1")
	if persisted.FocusedField != "" {
		t.Errorf("FocusedField = %q, want cleared", persisted.FocusedField)
	}
}

func TestUpdateMetadata(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateMetadata(ctx, "s1", map[entity.FieldName]string{
		entity.FieldTag:   "SPECIAL ISSUE",
		entity.FieldTitle: "New Title",
	})
	if err != nil {
		t.Fatalf("UpdateMetadata: %v", err)
	}

	persisted, _ := store.GetByID(ctx, "s1")
	if persisted.Metadata.Tag != "SPECIAL ISSUE" || persisted.Metadata.Title != "New Title" {
		t.Errorf("metadata = %+v", persisted.Metadata)
	}
	// 未出现的字段保持默认值
	if persisted.Metadata.Footer != "The International Journal of Science" {
		t.Errorf("Footer = %q, want untouched default", persisted.Metadata.Footer)
	}
}

func TestUpdateMetadataRejectsBatchWithUnknownField(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateMetadata(ctx, "s1", map[entity.FieldName]string{
		entity.FieldTag:          "SPECIAL ISSUE",
		entity.FieldName("mood"): "happy",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidParam) {
		t.Fatalf("err = %v, want InvalidParam", err)
	}

	// 整批拒绝，合法字段也不能写入
	persisted, _ := store.GetByID(ctx, "s1")
	if persisted.Metadata.Tag != "FEATURED RESEARCH" {
		t.Errorf("Tag = %q, want untouched default", persisted.Metadata.Tag)
	}
}

func TestUpdateMetadataEmptyBatch(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateMetadata(context.Background(), "s1", nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidParam) {
		t.Fatalf("err = %v, want InvalidParam", err)
	}
}

func TestAdjustFontOffsetScopedToFocus(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SetFocus(ctx, "s1", entity.FieldTitle); err != nil {
		t.Fatalf("SetFocus: %v", err)
	}
	if _, err := svc.AdjustFontOffset(ctx, "s1", "", 1); err != nil {
		t.Fatalf("AdjustFontOffset: %v", err)
	}
	if _, err := svc.AdjustFontOffset(ctx, "s1", "", 1); err != nil {
		t.Fatalf("AdjustFontOffset: %v", err)
	}

	persisted, _ := store.GetByID(ctx, "s1")
	if got := persisted.FontOffsets.Get(entity.FieldTitle); got != 2 {
		t.Errorf("title offset = %d, want 2", got)
	}
	// 焦点之外的字段不受影响
	if got := persisted.FontOffsets.Get(entity.FieldAuthors); got != 0 {
		t.Errorf("authors offset = %d, want 0", got)
	}
}

func TestAdjustFontOffsetExplicitFieldsAreIndependent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AdjustFontOffset(ctx, "s1", entity.FieldTitle, 1); err != nil {
		t.Fatalf("title +1: %v", err)
	}
	if _, err := svc.AdjustFontOffset(ctx, "s1", entity.FieldAuthors, -1); err != nil {
		t.Fatalf("authors -1: %v", err)
	}

	persisted, _ := store.GetByID(ctx, "s1")
	if got := persisted.FontOffsets.Get(entity.FieldTitle); got != 1 {
		t.Errorf("title offset = %d, want 1", got)
	}
	if got := persisted.FontOffsets.Get(entity.FieldAuthors); got != -1 {
		t.Errorf("authors offset = %d, want -1", got)
	}
}

func TestAdjustFontOffsetValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// 无焦点且未指定字段
	if _, err := svc.AdjustFontOffset(ctx, "s1", "", 1); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidParam) {
		t.Fatalf("err = %v, want InvalidParam", err)
	}
	// 步进只接受 ±1
	if _, err := svc.AdjustFontOffset(ctx, "s1", entity.FieldTitle, 3); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidParam) {
		t.Fatalf("err = %v, want InvalidParam", err)
	}
}
