// Package port 定义应用层对外部能力的最小依赖（port）
package port

import (
	"context"

	"journal-cover-ai-api/internal/domain/entity"
)

// TextRequest 文本生成请求
type TextRequest struct {
	// System 系统指令，空串表示不设置
	System string
	Prompt string
}

// ImageData 图像原始字节及其 MIME 类型
type ImageData struct {
	MIMEType string
	Data     []byte
}

// ImageRequest 图像生成请求
type ImageRequest struct {
	Model       entity.ImageModel
	Prompt      string
	AspectRatio string
	// BaseImage 润色时携带的当前封面，首次生成为 nil
	BaseImage *ImageData
}

// GenerativeBackend 生成式模型后端端口
type GenerativeBackend interface {
	// EnsureModelAccess 校验指定模型档位的凭证是否就绪
	EnsureModelAccess(model entity.ImageModel) error

	// GenerateText 生成纯文本
	GenerateText(ctx context.Context, req TextRequest) (string, error)

	// GenerateImage 生成单张图像，模型未返回图像数据时报错
	GenerateImage(ctx context.Context, req ImageRequest) (ImageData, error)

	// ExtractArticle 从 PDF 原始字节中抽取文章元数据
	ExtractArticle(ctx context.Context, pdf []byte) (entity.ArticleRecord, error)
}
