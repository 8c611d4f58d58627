package port

import (
	"context"

	"journal-cover-ai-api/internal/domain/entity"
)

// ArticleDirectory 文献目录查询端口
type ArticleDirectory interface {
	// Lookup 按 DOI 查询文献元数据，未收录时返回 DOI 未找到错误
	Lookup(ctx context.Context, doi string) (entity.ArticleRecord, error)
}
