// Package resolver 将 DOI 或上传的 PDF 解析为规范化的文章记录
package resolver

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"journal-cover-ai-api/internal/application/port"
	"journal-cover-ai-api/internal/domain/entity"
	pkgerrors "journal-cover-ai-api/pkg/errors"
	"journal-cover-ai-api/pkg/logger"
	"journal-cover-ai-api/pkg/metrics"
	"journal-cover-ai-api/pkg/utils"
)

var tracer = otel.Tracer("resolver")

// AbstractPlaceholder 目录服务未返回摘要时填入的占位文本
// 提示用户需要手动粘贴摘要，而不是以错误中断流程
const AbstractPlaceholder = "Abstract not available. Please paste the abstract manually."

// Service 文章元数据解析服务
// 两条解析路径均为单次请求，不做重试与缓存
type Service struct {
	directory port.ArticleDirectory
	backend   port.GenerativeBackend
}

func NewService(directory port.ArticleDirectory, backend port.GenerativeBackend) *Service {
	return &Service{
		directory: directory,
		backend:   backend,
	}
}

// NormalizeDOI 剥离解析器 URL 外壳，返回纯 DOI
// 依次去除 http(s):// 前缀、可选的 dx. 子域、doi.org/ 主机段与 doi: 前缀，
// 裸 DOI 原样返回
func NormalizeDOI(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "dx.")
	s = strings.TrimPrefix(s, "doi.org/")
	s = strings.TrimPrefix(s, "doi:")
	return strings.TrimSpace(s)
}

// ResolveDOI 规范化 DOI 并向文献目录查询元数据
// 摘要中的 JATS 标记在此统一清理，缺失摘要以占位文本代替
func (s *Service) ResolveDOI(ctx context.Context, raw string) (entity.ArticleRecord, error) {
	ctx, span := tracer.Start(ctx, "resolver.Service.ResolveDOI")
	defer span.End()

	doi := NormalizeDOI(raw)
	if doi == "" {
		return entity.ArticleRecord{}, pkgerrors.New(pkgerrors.CodeInvalidParam, "invalid parameter").
			WithDetail("DOI must not be empty")
	}
	span.SetAttributes(attribute.String("resolver.doi", doi))

	start := time.Now()
	record, err := s.directory.Lookup(ctx, doi)
	observe("doi", start, err)
	if err != nil {
		span.RecordError(err)
		logger.Warn(ctx, "DOI 解析失败", "doi", doi, "error", err.Error())
		return entity.ArticleRecord{}, err
	}

	record.Content = utils.StripJATSMarkup(record.Content)
	if record.Content == "" {
		record.Content = AbstractPlaceholder
	}
	logger.Info(ctx, "DOI 解析成功",
		"doi", doi,
		"title", utils.Truncate(record.Title, 80),
	)
	return record, nil
}

// ResolvePDF 将 PDF 原始字节交给生成后端做结构化抽取
// 抽取失败或解析不出结构时由后端返回 ExtractionFailed，缺失字段保持空串
func (s *Service) ResolvePDF(ctx context.Context, pdf []byte) (entity.ArticleRecord, error) {
	ctx, span := tracer.Start(ctx, "resolver.Service.ResolvePDF")
	defer span.End()

	if len(pdf) == 0 {
		return entity.ArticleRecord{}, pkgerrors.New(pkgerrors.CodeInvalidParam, "invalid parameter").
			WithDetail("PDF payload must not be empty")
	}
	span.SetAttributes(attribute.Int("resolver.pdf_bytes", len(pdf)))

	start := time.Now()
	record, err := s.backend.ExtractArticle(ctx, pdf)
	observe("pdf", start, err)
	if err != nil {
		span.RecordError(err)
		logger.Warn(ctx, "PDF 抽取失败", "size", len(pdf), "error", err.Error())
		return entity.ArticleRecord{}, err
	}

	logger.Info(ctx, "PDF 抽取成功",
		"size", len(pdf),
		"title", utils.Truncate(record.Title, 80),
	)
	return record, nil
}

func observe(source string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ResolveTotal.WithLabelValues(source, status).Inc()
	metrics.ResolveDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}
