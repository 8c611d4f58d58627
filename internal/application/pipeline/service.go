// Package pipeline 编排描述、生成、润色三阶段的封面生成流程
package pipeline

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"journal-cover-ai-api/internal/application/port"
	"journal-cover-ai-api/internal/domain/entity"
	"journal-cover-ai-api/internal/domain/repository"
	"journal-cover-ai-api/internal/infrastructure/imaging"
	pkgerrors "journal-cover-ai-api/pkg/errors"
	"journal-cover-ai-api/pkg/logger"
	"journal-cover-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("pipeline")

// Service 封面生成流水线
// Submit 与 Refine 校验后立即返回，阶段推进在后台协程内完成，
// 过期协程的回写由会话操作令牌拦截
type Service struct {
	store   repository.SessionRepository
	backend port.GenerativeBackend

	// newToken 生成操作令牌，测试中可替换
	newToken func() string
	// spawn 调度后台阶段执行，测试中替换为同步调用
	spawn func(fn func())
}

func NewService(store repository.SessionRepository, backend port.GenerativeBackend) *Service {
	return &Service{
		store:    store,
		backend:  backend,
		newToken: uuid.NewString,
		spawn:    func(fn func()) { go fn() },
	}
}

// Submit 校验文章记录并启动一次新的封面生成
// 成功返回处于 analyzing 状态的会话快照，图像在后台异步产出
func (p *Service) Submit(ctx context.Context, sessionID string, record entity.ArticleRecord, config entity.GenerationConfig) (*entity.GenerationSession, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Service.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("pipeline.session_id", sessionID),
		attribute.String("pipeline.model", string(config.Model)),
		attribute.String("pipeline.style", string(config.Style)),
	)

	if err := record.Validate(); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidParam, "invalid parameter").WithDetail(err.Error())
	}
	if err := config.Validate(); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidParam, "invalid parameter").WithDetail(err.Error())
	}
	if err := p.backend.EnsureModelAccess(config.Model); err != nil {
		return nil, err
	}

	token := p.newToken()
	session, err := p.store.Update(ctx, sessionID, func(s entity.GenerationSession) (entity.GenerationSession, error) {
		return s.BeginGeneration(record, config, token)
	})
	if err != nil {
		return nil, mapSessionErr(err)
	}
	if session == nil {
		return nil, pkgerrors.ErrNotFound
	}

	bg := context.WithoutCancel(ctx)
	p.spawn(func() { p.runGeneration(bg, sessionID, token, record, config) })
	logger.Info(ctx, "封面生成已提交",
		"session_id", sessionID,
		"model", string(config.Model),
		"style", string(config.Style),
	)
	return session, nil
}

// Refine 基于当前封面图与用户指令启动一次润色
// 会话必须已有生成图（completed，或润色失败后仍保留图像的 error 状态），配置沿用上次生成
func (p *Service) Refine(ctx context.Context, sessionID string, instruction string) (*entity.GenerationSession, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Service.Refine")
	defer span.End()
	span.SetAttributes(attribute.String("pipeline.session_id", sessionID))

	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidParam, "invalid parameter").
			WithDetail("refinement instruction must not be empty")
	}

	current, err := p.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, pkgerrors.ErrNotFound
	}
	if err := p.backend.EnsureModelAccess(current.Config.Model); err != nil {
		return nil, err
	}

	token := p.newToken()
	var baseImage string
	var config entity.GenerationConfig
	session, err := p.store.Update(ctx, sessionID, func(s entity.GenerationSession) (entity.GenerationSession, error) {
		next, err := s.BeginRefinement(token)
		if err != nil {
			return s, err
		}
		baseImage = next.GeneratedImage
		config = next.Config
		return next, nil
	})
	if err != nil {
		return nil, mapSessionErr(err)
	}
	if session == nil {
		return nil, pkgerrors.ErrNotFound
	}

	bg := context.WithoutCancel(ctx)
	p.spawn(func() { p.runRefinement(bg, sessionID, token, baseImage, instruction, config) })
	logger.Info(ctx, "封面润色已提交", "session_id", sessionID)
	return session, nil
}

// runGeneration 在后台依次执行描述与生成两个阶段
// 生成阶段消费的提示词一定来自同一次提交的描述阶段
func (p *Service) runGeneration(ctx context.Context, sessionID, token string, record entity.ArticleRecord, config entity.GenerationConfig) {
	ctx, span := tracer.Start(ctx, "pipeline.Service.runGeneration")
	defer span.End()
	span.SetAttributes(attribute.String("pipeline.session_id", sessionID))

	prompt, err := p.describe(ctx, record, config)
	if err != nil {
		p.abort(ctx, sessionID, token, "describe", err)
		return
	}

	if !p.apply(ctx, sessionID, token, "describe", func(s entity.GenerationSession) (entity.GenerationSession, error) {
		return s.PromptReady(prompt)
	}) {
		return
	}

	image, err := p.generate(ctx, "generate", port.ImageRequest{
		Model:       config.Model,
		Prompt:      prompt,
		AspectRatio: string(config.AspectRatio),
	})
	if err != nil {
		p.abort(ctx, sessionID, token, "generate", err)
		return
	}

	if p.apply(ctx, sessionID, token, "generate", func(s entity.GenerationSession) (entity.GenerationSession, error) {
		return s.CompleteGeneration(image)
	}) {
		logger.Info(ctx, "封面生成完成", "session_id", sessionID)
	}
}

// runRefinement 在后台执行单阶段润色
func (p *Service) runRefinement(ctx context.Context, sessionID, token, baseImage, instruction string, config entity.GenerationConfig) {
	ctx, span := tracer.Start(ctx, "pipeline.Service.runRefinement")
	defer span.End()
	span.SetAttributes(attribute.String("pipeline.session_id", sessionID))

	data, err := imaging.DecodeDataURL(baseImage)
	if err != nil {
		p.abort(ctx, sessionID, token, "refine",
			pkgerrors.Wrap(err, pkgerrors.CodeGenerationFailed, "stored cover image is not decodable"))
		return
	}

	image, err := p.generate(ctx, "refine", port.ImageRequest{
		Model:       config.Model,
		Prompt:      instruction,
		AspectRatio: string(config.AspectRatio),
		BaseImage:   &port.ImageData{MIMEType: http.DetectContentType(data), Data: data},
	})
	if err != nil {
		p.abort(ctx, sessionID, token, "refine", err)
		return
	}

	if p.apply(ctx, sessionID, token, "refine", func(s entity.GenerationSession) (entity.GenerationSession, error) {
		return s.CompleteRefinement(image)
	}) {
		logger.Info(ctx, "封面润色完成", "session_id", sessionID)
	}
}

// describe 将文章记录转写为单段图像场景描述
// 模型产出为空时退回固定的通用描述，仅传输层错误会中断流水线
func (p *Service) describe(ctx context.Context, record entity.ArticleRecord, config entity.GenerationConfig) (string, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Service.describe")
	defer span.End()

	start := time.Now()
	text, err := p.backend.GenerateText(ctx, buildDescribeRequest(record, config))
	switch {
	case err == nil && strings.TrimSpace(text) != "":
		observeStage("describe", start, nil)
		return strings.TrimSpace(text), nil
	case err == nil || pkgerrors.IsCode(err, pkgerrors.CodeGenerationFailed):
		observeStage("describe", start, nil)
		logger.Warn(ctx, "描述阶段产出为空，使用通用描述")
		return fallbackDescription, nil
	default:
		observeStage("describe", start, err)
		return "", err
	}
}

// generate 调用图像后端并把结果编码为数据串
func (p *Service) generate(ctx context.Context, stage string, req port.ImageRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Service.generate")
	defer span.End()
	span.SetAttributes(attribute.String("pipeline.stage", stage))

	start := time.Now()
	data, err := p.backend.GenerateImage(ctx, req)
	observeStage(stage, start, err)
	if err != nil {
		return "", err
	}
	return imaging.EncodeDataURL(data.Data), nil
}

// apply 以操作令牌回写会话，令牌过期或转移被拒时放弃后续阶段
func (p *Service) apply(ctx context.Context, sessionID, token, stage string, fn repository.UpdateFunc) bool {
	session, err := p.store.ApplyIfCurrent(ctx, sessionID, token, fn)
	if err != nil {
		logger.Warn(ctx, "流水线回写被拒绝",
			"session_id", sessionID,
			"stage", stage,
			"error", err.Error(),
		)
		return false
	}
	if session == nil {
		logger.Warn(ctx, "会话在流水线执行期间被删除", "session_id", sessionID, "stage", stage)
		return false
	}
	return true
}

// abort 将后端失败写入会话错误状态，已有生成图保持不变
func (p *Service) abort(ctx context.Context, sessionID, token, stage string, cause error) {
	logger.Error(ctx, "流水线阶段失败", cause, "session_id", sessionID, "stage", stage)
	_, err := p.store.ApplyIfCurrent(ctx, sessionID, token, func(s entity.GenerationSession) (entity.GenerationSession, error) {
		return s.Fail(failureMessage(stage, cause))
	})
	if err != nil {
		logger.Warn(ctx, "错误状态回写被拒绝",
			"session_id", sessionID,
			"stage", stage,
			"error", err.Error(),
		)
	}
}

// failureMessage 生成面向用户的失败说明
func failureMessage(stage string, cause error) string {
	msg := cause.Error()
	var appErr *pkgerrors.AppError
	if errors.As(cause, &appErr) {
		msg = appErr.Message
		if appErr.Detail != "" {
			msg += ": " + appErr.Detail
		}
	}
	switch stage {
	case "describe":
		return "Article analysis failed: " + msg
	case "refine":
		return "Cover refinement failed: " + msg
	default:
		return "Cover generation failed: " + msg
	}
}

// mapSessionErr 将领域转移错误映射为带 HTTP 语义的应用错误
func mapSessionErr(err error) error {
	switch {
	case errors.Is(err, entity.ErrInvalidTransition):
		return pkgerrors.New(pkgerrors.CodeSessionNotIdle, "session cannot accept this operation now").
			WithDetail(err.Error())
	case errors.Is(err, entity.ErrExportInProgress):
		return pkgerrors.ErrExportBusy
	case errors.Is(err, entity.ErrNoGeneratedImage):
		return pkgerrors.New(pkgerrors.CodeConflict, "no generated cover to refine").
			WithDetail(err.Error())
	default:
		return err
	}
}

func observeStage(stage string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.PipelineStageTotal.WithLabelValues(stage, status).Inc()
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
