// Package layout 管理封面排版：编辑器模式、分组拖拽、封面文字与字号偏移
package layout

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"journal-cover-ai-api/internal/domain/entity"
	"journal-cover-ai-api/internal/domain/repository"
	pkgerrors "journal-cover-ai-api/pkg/errors"
	"journal-cover-ai-api/pkg/logger"
)

var tracer = otel.Tracer("layout")

// DragPhase 拖拽事件阶段
type DragPhase string

const (
	DragPhaseBegin DragPhase = "begin"
	DragPhaseMove  DragPhase = "move"
	DragPhaseEnd   DragPhase = "end"
)

// DragEvent 客户端上报的一次指针事件
// 坐标与画布尺寸均为像素，位移由服务端折算为画布百分比
type DragEvent struct {
	Phase        DragPhase
	Group        entity.GroupKey
	PointerX     float64
	PointerY     float64
	CanvasWidth  float64
	CanvasHeight float64
}

// Service 排版编辑服务
type Service struct {
	store repository.SessionRepository
}

func NewService(store repository.SessionRepository) *Service {
	return &Service{store: store}
}

// SetMode 切换编辑器模式
func (l *Service) SetMode(ctx context.Context, sessionID string, mode entity.EditorMode) (*entity.GenerationSession, error) {
	ctx, span := tracer.Start(ctx, "layout.Service.SetMode")
	defer span.End()
	span.SetAttributes(attribute.String("layout.mode", string(mode)))

	session, err := l.store.Update(ctx, sessionID, func(s entity.GenerationSession) (entity.GenerationSession, error) {
		return s.WithMode(mode)
	})
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidMode, "invalid editor mode").WithDetail(err.Error())
	}
	if session == nil {
		return nil, pkgerrors.ErrNotFound
	}
	logger.Debug(ctx, "编辑器模式已切换", "session_id", sessionID, "mode", string(mode))
	return session, nil
}

// HandleDrag 处理一次拖拽指针事件并返回最新会话
// move 与 end 在没有进行中拖拽时为无操作，正常响应当前布局
func (l *Service) HandleDrag(ctx context.Context, sessionID string, ev DragEvent) (*entity.GenerationSession, error) {
	ctx, span := tracer.Start(ctx, "layout.Service.HandleDrag")
	defer span.End()
	span.SetAttributes(
		attribute.String("layout.drag_phase", string(ev.Phase)),
		attribute.String("layout.group", string(ev.Group)),
	)

	session, err := l.store.Update(ctx, sessionID, func(s entity.GenerationSession) (entity.GenerationSession, error) {
		switch ev.Phase {
		case DragPhaseBegin:
			return s.BeginDrag(ev.Group, ev.PointerX, ev.PointerY)
		case DragPhaseMove:
			return s.DragMove(ev.PointerX, ev.PointerY, ev.CanvasWidth, ev.CanvasHeight), nil
		case DragPhaseEnd:
			return s.EndDrag(), nil
		default:
			return s, fmt.Errorf("unknown drag phase: %q", ev.Phase)
		}
	})
	if err != nil {
		return nil, mapDragErr(err)
	}
	if session == nil {
		return nil, pkgerrors.ErrNotFound
	}
	return session, nil
}

// SetFocus 设置或清除输入焦点字段，空字段名表示清除
func (l *Service) SetFocus(ctx context.Context, sessionID string, field entity.FieldName) (*entity.GenerationSession, error) {
	ctx, span := tracer.Start(ctx, "layout.Service.SetFocus")
	defer span.End()

	if field != "" && !entity.ValidCoverField(field) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidParam, "invalid parameter").
			WithDetail(fmt.Sprintf("unknown cover field: %q", field))
	}

	session, err := l.store.Update(ctx, sessionID, func(s entity.GenerationSession) (entity.GenerationSession, error) {
		return s.WithFocus(field), nil
	})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, pkgerrors.ErrNotFound
	}
	return session, nil
}

// UpdateMetadata 批量更新封面文字字段，未出现的字段保持不变
// 任一字段名非法时整批拒绝，不做部分写入
func (l *Service) UpdateMetadata(ctx context.Context, sessionID string, fields map[entity.FieldName]string) (*entity.GenerationSession, error) {
	ctx, span := tracer.Start(ctx, "layout.Service.UpdateMetadata")
	defer span.End()
	span.SetAttributes(attribute.Int("layout.field_count", len(fields)))

	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidParam, "invalid parameter").
			WithDetail("no cover fields to update")
	}

	session, err := l.store.Update(ctx, sessionID, func(s entity.GenerationSession) (entity.GenerationSession, error) {
		var err error
		for field, value := range fields {
			if s, err = s.WithMetadataField(field, value); err != nil {
				return s, err
			}
		}
		return s, nil
	})
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidParam, "invalid parameter").WithDetail(err.Error())
	}
	if session == nil {
		return nil, pkgerrors.ErrNotFound
	}
	return session, nil
}

// AdjustFontOffset 对目标字段叠加一档字号偏移，delta 只接受 ±1
// field 为空时作用于当前焦点字段，没有焦点则拒绝
func (l *Service) AdjustFontOffset(ctx context.Context, sessionID string, field entity.FieldName, delta int) (*entity.GenerationSession, error) {
	ctx, span := tracer.Start(ctx, "layout.Service.AdjustFontOffset")
	defer span.End()
	span.SetAttributes(
		attribute.String("layout.field", string(field)),
		attribute.Int("layout.delta", delta),
	)

	if delta != 1 && delta != -1 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidParam, "invalid parameter").
			WithDetail("font offset delta must be +1 or -1")
	}

	session, err := l.store.Update(ctx, sessionID, func(s entity.GenerationSession) (entity.GenerationSession, error) {
		target := field
		if target == "" {
			target = s.FocusedField
		}
		if target == "" {
			return s, errors.New("no cover field is focused")
		}
		return s.AdjustFontOffset(target, delta)
	})
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidParam, "invalid parameter").WithDetail(err.Error())
	}
	if session == nil {
		return nil, pkgerrors.ErrNotFound
	}
	return session, nil
}

func mapDragErr(err error) error {
	switch {
	case errors.Is(err, entity.ErrNotInLayoutMode):
		return pkgerrors.New(pkgerrors.CodeInvalidMode, "drag requires layout mode")
	default:
		return pkgerrors.New(pkgerrors.CodeInvalidParam, "invalid parameter").WithDetail(err.Error())
	}
}
