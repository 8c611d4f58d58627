package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"journal-cover-ai-api/internal/domain/entity"
)

func newStore() *SessionStore {
	return NewSessionStore(Options{})
}

func seedSession(t *testing.T, s *SessionStore, id string) entity.GenerationSession {
	t.Helper()
	session := entity.NewGenerationSession(id, time.Now())
	if err := s.Create(context.Background(), session); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return session
}

func TestCreateAndGet(t *testing.T) {
	s := newStore()
	seedSession(t, s, "a")

	got, err := s.GetByID(context.Background(), "a")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.ID != "a" {
		t.Fatalf("got = %+v", got)
	}

	missing, err := s.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID missing: %v", err)
	}
	if missing != nil {
		t.Errorf("missing session = %+v, want nil", missing)
	}
}

func TestCreateDuplicate(t *testing.T) {
	s := newStore()
	seedSession(t, s, "a")

	if err := s.Create(context.Background(), entity.NewGenerationSession("a", time.Now())); err == nil {
		t.Error("duplicate create accepted")
	}
}

func TestUpdateAppliesTransform(t *testing.T) {
	s := newStore()
	seedSession(t, s, "a")

	updated, err := s.Update(context.Background(), "a", func(sess entity.GenerationSession) (entity.GenerationSession, error) {
		return sess.BeginGeneration(entity.ArticleRecord{Title: "t", Content: "c"}, entity.DefaultGenerationConfig(), "tok-1")
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != entity.SessionStatusAnalyzing {
		t.Errorf("Status = %q", updated.Status)
	}

	// 存储中的副本也已更新
	stored, _ := s.GetByID(context.Background(), "a")
	if stored.Status != entity.SessionStatusAnalyzing {
		t.Errorf("stored Status = %q", stored.Status)
	}
}

func TestUpdateRejectedTransformLeavesStore(t *testing.T) {
	s := newStore()
	seedSession(t, s, "a")

	_, err := s.Update(context.Background(), "a", func(sess entity.GenerationSession) (entity.GenerationSession, error) {
		return sess.PromptReady("p")
	})
	if !errors.Is(err, entity.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	stored, _ := s.GetByID(context.Background(), "a")
	if stored.Status != entity.SessionStatusIdle {
		t.Errorf("failed update mutated store: Status = %q", stored.Status)
	}
}

func TestUpdateMissingSession(t *testing.T) {
	s := newStore()

	got, err := s.Update(context.Background(), "nope", func(sess entity.GenerationSession) (entity.GenerationSession, error) {
		return sess, nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil", got)
	}
}

func TestApplyIfCurrentStaleToken(t *testing.T) {
	s := newStore()
	seedSession(t, s, "a")

	_, err := s.Update(context.Background(), "a", func(sess entity.GenerationSession) (entity.GenerationSession, error) {
		return sess.BeginGeneration(entity.ArticleRecord{Title: "t", Content: "c"}, entity.DefaultGenerationConfig(), "tok-1")
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// 令牌匹配时变换生效
	_, err = s.ApplyIfCurrent(context.Background(), "a", "tok-1", func(sess entity.GenerationSession) (entity.GenerationSession, error) {
		return sess.PromptReady("prompt")
	})
	if err != nil {
		t.Fatalf("ApplyIfCurrent with live token: %v", err)
	}

	// 会话被重置后旧令牌的迟到响应被丢弃
	_, err = s.Update(context.Background(), "a", func(sess entity.GenerationSession) (entity.GenerationSession, error) {
		return sess.Reset(), nil
	})
	if err != nil {
		t.Fatalf("reset: %v", err)
	}

	_, err = s.ApplyIfCurrent(context.Background(), "a", "tok-1", func(sess entity.GenerationSession) (entity.GenerationSession, error) {
		return sess.CompleteGeneration("data:image/png;base64,AAAA")
	})
	if !errors.Is(err, entity.ErrStaleOperation) {
		t.Fatalf("err = %v, want ErrStaleOperation", err)
	}

	stored, _ := s.GetByID(context.Background(), "a")
	if stored.GeneratedImage != "" {
		t.Error("stale response mutated session")
	}
}

func TestDeleteAndCount(t *testing.T) {
	s := newStore()
	seedSession(t, s, "a")
	seedSession(t, s, "b")

	if n, _ := s.Count(context.Background()); n != 2 {
		t.Fatalf("Count = %d, want 2", n)
	}
	if err := s.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if n, _ := s.Count(context.Background()); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestSweepEvictsExpired(t *testing.T) {
	s := NewSessionStore(Options{TTL: time.Hour})
	seedSession(t, s, "stale")
	seedSession(t, s, "fresh")
	seedSession(t, s, "busy")

	now := time.Now()
	s.mu.Lock()
	stale := s.sessions["stale"]
	stale.UpdatedAt = now.Add(-2 * time.Hour)
	s.sessions["stale"] = stale

	busy := s.sessions["busy"]
	busy.Status = entity.SessionStatusGenerating
	busy.UpdatedAt = now.Add(-2 * time.Hour)
	s.sessions["busy"] = busy
	s.mu.Unlock()

	s.sweep(now)

	if got, _ := s.GetByID(context.Background(), "stale"); got != nil {
		t.Error("stale session survived sweep")
	}
	if got, _ := s.GetByID(context.Background(), "fresh"); got == nil {
		t.Error("fresh session evicted")
	}
	if got, _ := s.GetByID(context.Background(), "busy"); got == nil {
		t.Error("in-flight session evicted")
	}
}
