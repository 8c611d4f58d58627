package entity

import (
	"errors"
	"math"
	"testing"
	"time"
)

func newLayoutModeSession(t *testing.T) GenerationSession {
	t.Helper()
	s, err := NewGenerationSession("drag-test", time.Now()).WithMode(ModeLayout)
	if err != nil {
		t.Fatalf("WithMode: %v", err)
	}
	return s
}

func positionNear(t *testing.T, got Position, wantX, wantY float64) {
	t.Helper()
	if math.Abs(got.X-wantX) > 1e-9 || math.Abs(got.Y-wantY) > 1e-9 {
		t.Errorf("position = (%v, %v), want (%v, %v)", got.X, got.Y, wantX, wantY)
	}
}

func TestBeginDragRequiresLayoutMode(t *testing.T) {
	s := NewGenerationSession("s", time.Now())

	_, err := s.BeginDrag(GroupHeader, 10, 10)
	if !errors.Is(err, ErrNotInLayoutMode) {
		t.Fatalf("err = %v, want ErrNotInLayoutMode", err)
	}
}

func TestBeginDragUnknownGroup(t *testing.T) {
	s := newLayoutModeSession(t)

	_, err := s.BeginDrag(GroupKey("sidebar"), 10, 10)
	if !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("err = %v, want ErrUnknownGroup", err)
	}
}

func TestDragMovesGroupByCanvasRelativeDelta(t *testing.T) {
	s := newLayoutModeSession(t)

	s, err := s.BeginDrag(GroupContent, 100, 200)
	if err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	// 位移 80px/800px 与 112.3px/1123px 均折算为 10%
	s = s.DragMove(180, 312.3, 800, 1123)

	positionNear(t, s.Layout.Content, 15, 72)
	// 其余分组不受影响
	positionNear(t, s.Layout.Header, 5, 3)
}

func TestDragMoveComputesFromOrigin(t *testing.T) {
	s := newLayoutModeSession(t)

	s, _ = s.BeginDrag(GroupHeader, 0, 0)
	s = s.DragMove(80, 0, 800, 800)
	positionNear(t, s.Layout.Header, 15, 3)

	// 第二次移动仍以按下时的位置为基准，不做累加
	s = s.DragMove(40, 0, 800, 800)
	positionNear(t, s.Layout.Header, 10, 3)
}

func TestDragClampsAtBounds(t *testing.T) {
	s := newLayoutModeSession(t)

	s, _ = s.BeginDrag(GroupTag, 0, 0)
	s = s.DragMove(-100000, -100000, 800, 1123)
	positionNear(t, s.Layout.Tag, PositionMin, PositionMin)

	s = s.DragMove(100000, 100000, 800, 1123)
	positionNear(t, s.Layout.Tag, PositionMax, PositionMax)
}

func TestDragMoveWithoutBeginIsNoop(t *testing.T) {
	s := newLayoutModeSession(t)

	s = s.DragMove(500, 500, 800, 1123)
	positionNear(t, s.Layout.Header, 5, 3)
	positionNear(t, s.Layout.Content, 5, 62)
}

func TestDragMoveIgnoresDegenerateCanvas(t *testing.T) {
	s := newLayoutModeSession(t)

	s, _ = s.BeginDrag(GroupHeader, 0, 0)
	s = s.DragMove(100, 100, 0, 0)
	positionNear(t, s.Layout.Header, 5, 3)
}

func TestEndDragWithoutBeginIsNoop(t *testing.T) {
	s := newLayoutModeSession(t)

	s = s.EndDrag()
	if s.Drag.Active {
		t.Error("Drag.Active = true after noop end")
	}
}

func TestEndDragReleasesGroup(t *testing.T) {
	s := newLayoutModeSession(t)

	s, _ = s.BeginDrag(GroupMeta, 10, 10)
	if !s.Drag.Active {
		t.Fatal("Drag.Active = false after begin")
	}
	s = s.EndDrag()
	if s.Drag.Active {
		t.Error("Drag.Active = true after end")
	}

	// 结束后移动不再产生位移
	s = s.DragMove(300, 300, 800, 1123)
	positionNear(t, s.Layout.Meta, 5, 14)
}

func TestModeSwitchEndsDrag(t *testing.T) {
	s := newLayoutModeSession(t)

	s, _ = s.BeginDrag(GroupHeader, 0, 0)
	s, err := s.WithMode(ModeEdit)
	if err != nil {
		t.Fatalf("WithMode: %v", err)
	}
	if s.Drag.Active {
		t.Error("Drag.Active = true after leaving layout mode")
	}
}

func TestBeginDragReplacesActiveDrag(t *testing.T) {
	s := newLayoutModeSession(t)

	s, _ = s.BeginDrag(GroupHeader, 0, 0)
	s, err := s.BeginDrag(GroupContent, 50, 50)
	if err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	if s.Drag.Group != GroupContent {
		t.Errorf("Drag.Group = %q, want content", s.Drag.Group)
	}

	// 新拖拽以自己的按下点为基准
	s = s.DragMove(130, 50, 800, 1123)
	positionNear(t, s.Layout.Content, 15, 62)
	positionNear(t, s.Layout.Header, 5, 3)
}

func TestWithMetadataField(t *testing.T) {
	s := NewGenerationSession("s", time.Now())

	s, err := s.WithMetadataField(FieldTag, "BREAKTHROUGH")
	if err != nil {
		t.Fatalf("WithMetadataField: %v", err)
	}
	if s.Metadata.Tag != "BREAKTHROUGH" {
		t.Errorf("Tag = %q", s.Metadata.Tag)
	}

	if _, err := s.WithMetadataField(FieldName("banana"), "x"); err == nil {
		t.Error("unknown field accepted")
	}
}

func TestAdjustFontOffsetOnSession(t *testing.T) {
	s := NewGenerationSession("s", time.Now())

	s, err := s.AdjustFontOffset(FieldTitle, 1)
	if err != nil {
		t.Fatalf("AdjustFontOffset: %v", err)
	}
	s, _ = s.AdjustFontOffset(FieldTitle, 1)
	if got := s.FontOffsets.Get(FieldTitle); got != 2 {
		t.Errorf("offset = %d, want 2", got)
	}

	if _, err := s.AdjustFontOffset(FieldName("banana"), 1); err == nil {
		t.Error("unknown field accepted")
	}
}
