// Package export 将会话封面渲染为可打印的单页 A4 PDF
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"journal-cover-ai-api/internal/config"
	"journal-cover-ai-api/internal/domain/entity"
	"journal-cover-ai-api/internal/domain/repository"
	"journal-cover-ai-api/internal/infrastructure/imaging"
	"journal-cover-ai-api/internal/infrastructure/pdfwriter"
	pkgerrors "journal-cover-ai-api/pkg/errors"
	"journal-cover-ai-api/pkg/logger"
	"journal-cover-ai-api/pkg/metrics"
	"journal-cover-ai-api/pkg/utils"
)

var tracer = otel.Tracer("export")

// minDensity 打印质量下限，3 倍参考画布约对应 288 DPI
const minDensity = 3

// Result 一次导出的产物
type Result struct {
	Filename string
	Data     []byte
}

// Service 封面导出服务
type Service struct {
	store      repository.SessionRepository
	compositor *imaging.Compositor
	config     config.ExportConfig
}

func NewService(store repository.SessionRepository, compositor *imaging.Compositor, cfg config.ExportConfig) *Service {
	return &Service{
		store:      store,
		compositor: compositor,
		config:     cfg,
	}
}

// Export 将会话当前封面导出为单页 A4 PDF
// 导出期间强制编辑模式并持有互斥标记，结束后无条件恢复之前的模式
func (e *Service) Export(ctx context.Context, sessionID string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "export.Service.Export")
	defer span.End()
	span.SetAttributes(attribute.String("export.session_id", sessionID))

	start := time.Now()

	var priorMode entity.EditorMode
	snapshot, err := e.store.Update(ctx, sessionID, func(s entity.GenerationSession) (entity.GenerationSession, error) {
		priorMode = s.EditorMode
		return s.BeginExport()
	})
	if err != nil {
		if errors.Is(err, entity.ErrExportInProgress) {
			metrics.ExportTotal.WithLabelValues("busy").Inc()
			return nil, pkgerrors.ErrExportBusy
		}
		if errors.Is(err, entity.ErrInvalidTransition) {
			metrics.ExportTotal.WithLabelValues("busy").Inc()
			return nil, pkgerrors.New(pkgerrors.CodeSessionNotIdle, "session cannot export while a generation is running").
				WithDetail(err.Error())
		}
		return nil, err
	}
	if snapshot == nil {
		return nil, pkgerrors.ErrNotFound
	}

	// 无论渲染结果如何都要恢复之前的模式并解除互斥
	defer func() {
		restoreCtx := context.WithoutCancel(ctx)
		if _, err := e.store.Update(restoreCtx, sessionID, func(s entity.GenerationSession) (entity.GenerationSession, error) {
			return s.EndExport(priorMode), nil
		}); err != nil {
			logger.Error(ctx, "导出后恢复会话状态失败", err, "session_id", sessionID)
		}
	}()

	result, err := e.render(ctx, *snapshot)
	if err != nil {
		observeExport(start, "error")
		logger.Error(ctx, "封面导出失败", err, "session_id", sessionID)
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeExportFailed, "cover export failed")
	}

	observeExport(start, "success")
	metrics.ExportSizeBytes.Observe(float64(len(result.Data)))
	logger.Info(ctx, "封面导出完成",
		"session_id", sessionID,
		"filename", result.Filename,
		"size", len(result.Data),
	)
	return result, nil
}

// render 栅格化封面、JPEG 压缩并装配单页 PDF
func (e *Service) render(ctx context.Context, session entity.GenerationSession) (*Result, error) {
	ctx, span := tracer.Start(ctx, "export.Service.render")
	defer span.End()

	density := e.config.Density
	if density < minDensity {
		density = minDensity
	}

	var imageData []byte
	if session.GeneratedImage != "" {
		data, err := imaging.DecodeDataURL(session.GeneratedImage)
		if err != nil {
			return nil, fmt.Errorf("decode cover image: %w", err)
		}
		imageData = data
	}

	canvas, err := e.compositor.Render(ctx, imaging.RenderInput{
		Image:       imageData,
		Layout:      session.Layout,
		Metadata:    session.Metadata,
		FontOffsets: session.FontOffsets,
		Density:     density,
	})
	if err != nil {
		return nil, err
	}

	quality := e.config.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	var raster bytes.Buffer
	if err := jpeg.Encode(&raster, canvas, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode cover raster: %w", err)
	}

	docCfg := pdfwriter.DefaultConfig()
	docCfg.Title = session.Metadata.JournalName + " Cover"
	doc := pdfwriter.NewDocument(docCfg)
	bounds := canvas.Bounds()
	doc.AddImagePage(raster.Bytes(), bounds.Dx(), bounds.Dy())

	return &Result{
		Filename: utils.SanitizeFilename(session.Metadata.JournalName) + "_Cover.pdf",
		Data:     doc.Build(),
	}, nil
}

func observeExport(start time.Time, status string) {
	metrics.ExportTotal.WithLabelValues(status).Inc()
	metrics.ExportDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}
