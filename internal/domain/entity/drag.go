package entity

import (
	"errors"
	"time"
)

var (
	ErrNotInLayoutMode = errors.New("drag requires layout mode")
	ErrUnknownGroup    = errors.New("unknown layout group")
)

// DragState 进行中的分组拖拽
// 捕获按下瞬间的指针像素坐标与分组起始位置，移动事件只做相对换算
type DragState struct {
	Active   bool
	Group    GroupKey
	PointerX float64
	PointerY float64
	Origin   Position
}

// BeginDrag 在排版模式下按住一个分组开始拖拽
// 已有拖拽在途时直接被新的拖拽替换
func (s GenerationSession) BeginDrag(group GroupKey, pointerX, pointerY float64) (GenerationSession, error) {
	if s.EditorMode != ModeLayout {
		return s, ErrNotInLayoutMode
	}
	origin, ok := s.Layout.Position(group)
	if !ok {
		return s, ErrUnknownGroup
	}
	s.Drag = DragState{
		Active:   true,
		Group:    group,
		PointerX: pointerX,
		PointerY: pointerY,
		Origin:   origin,
	}
	s.UpdatedAt = time.Now()
	return s, nil
}

// DragMove 指针移动：像素位移按画布尺寸折算为百分比，叠加到起始位置后收敛
// 没有进行中的拖拽或画布尺寸非法时为无操作
func (s GenerationSession) DragMove(pointerX, pointerY, canvasWidth, canvasHeight float64) GenerationSession {
	if !s.Drag.Active || canvasWidth <= 0 || canvasHeight <= 0 {
		return s
	}
	deltaX := (pointerX - s.Drag.PointerX) / canvasWidth * 100
	deltaY := (pointerY - s.Drag.PointerY) / canvasHeight * 100
	s.Layout = s.Layout.WithPosition(s.Drag.Group, Position{
		X: s.Drag.Origin.X + deltaX,
		Y: s.Drag.Origin.Y + deltaY,
	})
	s.UpdatedAt = time.Now()
	return s
}

// EndDrag 释放指针，没有进行中的拖拽时为无操作
func (s GenerationSession) EndDrag() GenerationSession {
	if !s.Drag.Active {
		return s
	}
	s.Drag = DragState{}
	s.UpdatedAt = time.Now()
	return s
}
