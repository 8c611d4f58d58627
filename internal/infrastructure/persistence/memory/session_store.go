// Package memory 提供进程内会话仓储实现
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"

	"journal-cover-ai-api/internal/domain/entity"
	"journal-cover-ai-api/internal/domain/repository"
	"journal-cover-ai-api/pkg/logger"
	"journal-cover-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("memory")

// SessionStore 互斥锁保护的会话表，按最后活跃时间回收过期会话
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]entity.GenerationSession

	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// Options 会话存储配置
type Options struct {
	// TTL 会话自最后一次操作起的存活时长，0 表示永不过期
	TTL time.Duration
	// SweepInterval 过期扫描周期，0 表示不启动回收协程
	SweepInterval time.Duration
}

// NewSessionStore 创建会话存储并按需启动回收协程
func NewSessionStore(opts Options) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]entity.GenerationSession),
		ttl:      opts.TTL,
		stopCh:   make(chan struct{}),
	}
	if opts.TTL > 0 && opts.SweepInterval > 0 {
		go s.sweepLoop(opts.SweepInterval)
	}
	return s
}

// Create 保存新会话
func (s *SessionStore) Create(ctx context.Context, session entity.GenerationSession) error {
	_, span := tracer.Start(ctx, "memory.SessionStore.Create")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	s.sessions[session.ID] = session
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return nil
}

// GetByID 按 ID 查询会话，不存在时返回 nil, nil
func (s *SessionStore) GetByID(ctx context.Context, id string) (*entity.GenerationSession, error) {
	_, span := tracer.Start(ctx, "memory.SessionStore.GetByID")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

// Update 在锁内应用变换并保存
func (s *SessionStore) Update(ctx context.Context, id string, fn repository.UpdateFunc) (*entity.GenerationSession, error) {
	_, span := tracer.Start(ctx, "memory.SessionStore.Update")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	next, err := fn(current)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.recordTransition(current.Status, next.Status)
	s.sessions[id] = next
	return &next, nil
}

// ApplyIfCurrent 仅当操作令牌未被替换时应用变换
func (s *SessionStore) ApplyIfCurrent(ctx context.Context, id, token string, fn repository.UpdateFunc) (*entity.GenerationSession, error) {
	_, span := tracer.Start(ctx, "memory.SessionStore.ApplyIfCurrent")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if current.OpToken != token {
		return nil, entity.ErrStaleOperation
	}
	next, err := fn(current)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.recordTransition(current.Status, next.Status)
	s.sessions[id] = next
	return &next, nil
}

// Delete 删除会话，不存在时视为成功
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	_, span := tracer.Start(ctx, "memory.SessionStore.Delete")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return nil
}

// Count 当前存活会话数
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// Close 停止回收协程
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// recordTransition 调用方必须持有写锁
func (s *SessionStore) recordTransition(from, to entity.SessionStatus) {
	if from != to {
		metrics.SessionTransitionTotal.WithLabelValues(string(from), string(to)).Inc()
	}
}

func (s *SessionStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

// sweep 回收超过 TTL 未活跃的会话，在途与导出中的会话不回收
func (s *SessionStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, session := range s.sessions {
		if session.Busy() || session.Exporting {
			continue
		}
		if now.Sub(session.UpdatedAt) > s.ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.ActiveSessions.Set(float64(len(s.sessions)))
		logger.Info(context.Background(), "过期会话已回收",
			"evicted", evicted,
			"remaining", len(s.sessions),
		)
	}
}
