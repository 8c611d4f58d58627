// Package session 管理封面生成会话的生命周期
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"journal-cover-ai-api/internal/domain/entity"
	"journal-cover-ai-api/internal/domain/repository"
	pkgerrors "journal-cover-ai-api/pkg/errors"
	"journal-cover-ai-api/pkg/logger"
)

var tracer = otel.Tracer("session")

// Service 会话生命周期服务
type Service struct {
	store repository.SessionRepository

	newID func() string
	now   func() time.Time
}

func NewService(store repository.SessionRepository) *Service {
	return &Service{
		store: store,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// Create 创建新的空闲会话
func (s *Service) Create(ctx context.Context) (*entity.GenerationSession, error) {
	ctx, span := tracer.Start(ctx, "session.Service.Create")
	defer span.End()

	sess := entity.NewGenerationSession(s.newID(), s.now())
	span.SetAttributes(attribute.String("session.id", sess.ID))

	if err := s.store.Create(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternalError, "failed to create session")
	}
	logger.Info(ctx, "会话已创建", "session_id", sess.ID)
	return &sess, nil
}

// Get 查询会话
func (s *Service) Get(ctx context.Context, id string) (*entity.GenerationSession, error) {
	ctx, span := tracer.Start(ctx, "session.Service.Get")
	defer span.End()

	sess, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, pkgerrors.ErrNotFound
	}
	return sess, nil
}

// Delete 删除会话，不存在时视为成功
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "session.Service.Delete")
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, "会话已删除", "session_id", id)
	return nil
}

// Reset 将会话重置回 idle，排版、封面文字与字号偏移保持不变
// 操作令牌同时被清空，在途生成的迟到响应会因令牌不匹配而被丢弃
func (s *Service) Reset(ctx context.Context, id string) (*entity.GenerationSession, error) {
	ctx, span := tracer.Start(ctx, "session.Service.Reset")
	defer span.End()

	sess, err := s.store.Update(ctx, id, func(cur entity.GenerationSession) (entity.GenerationSession, error) {
		return cur.Reset(), nil
	})
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, pkgerrors.ErrNotFound
	}
	logger.Info(ctx, "会话已重置", "session_id", id)
	return sess, nil
}
