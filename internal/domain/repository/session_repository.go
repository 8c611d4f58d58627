// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"journal-cover-ai-api/internal/domain/entity"
)

// UpdateFunc 在仓储锁内执行的会话变换
// 返回 error 时更新被放弃，仓储中的会话保持原值
type UpdateFunc func(entity.GenerationSession) (entity.GenerationSession, error)

// SessionRepository 生成会话仓储接口
type SessionRepository interface {
	// Create 保存新会话，ID 冲突时返回错误
	Create(ctx context.Context, session entity.GenerationSession) error

	// GetByID 按 ID 查询会话，不存在时返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.GenerationSession, error)

	// Update 在锁内对会话应用变换并保存结果
	// 会话不存在时返回 nil, nil
	Update(ctx context.Context, id string, fn UpdateFunc) (*entity.GenerationSession, error)

	// ApplyIfCurrent 仅当会话的操作令牌仍等于 token 时应用变换
	// 令牌已被后续操作替换时返回 entity.ErrStaleOperation，
	// 迟到的后台响应据此被丢弃
	ApplyIfCurrent(ctx context.Context, id, token string, fn UpdateFunc) (*entity.GenerationSession, error)

	// Delete 删除会话，不存在时视为成功
	Delete(ctx context.Context, id string) error

	// Count 当前存活会话数
	Count(ctx context.Context) (int, error)
}
