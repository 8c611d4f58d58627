package gemini

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"journal-cover-ai-api/internal/application/port"
	"journal-cover-ai-api/internal/domain/entity"
	pkgerrors "journal-cover-ai-api/pkg/errors"
	"journal-cover-ai-api/pkg/metrics"
)

var _ port.GenerativeBackend = (*Client)(nil)

// GenerateText 生成纯文本
func (c *Client) GenerateText(ctx context.Context, req port.TextRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "gemini.Client.GenerateText")
	defer span.End()

	client, err := c.textClient()
	if err != nil {
		return "", err
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, c.config.TextModel, genai.Text(req.Prompt), cfg)
	observe(c.config.TextModel, "generate_text", start, err)
	if err != nil {
		span.RecordError(err)
		return "", pkgerrors.Wrap(err, pkgerrors.CodeBackendError, "text generation request failed")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", pkgerrors.New(pkgerrors.CodeGenerationFailed, "backend returned empty text")
	}
	return text, nil
}

// GenerateImage 生成单张图像
// 润色请求在 BaseImage 中携带当前封面，与指令一起发给模型
func (c *Client) GenerateImage(ctx context.Context, req port.ImageRequest) (port.ImageData, error) {
	ctx, span := tracer.Start(ctx, "gemini.Client.GenerateImage",
		trace.WithAttributes(attribute.String("gemini.model_tier", string(req.Model))))
	defer span.End()

	client, model, err := c.imageTarget(req.Model)
	if err != nil {
		return port.ImageData{}, err
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	parts := make([]*genai.Part, 0, 2)
	if req.BaseImage != nil {
		parts = append(parts, genai.NewPartFromBytes(req.BaseImage.Data, req.BaseImage.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	imgCfg := genai.ImageConfig{AspectRatio: req.AspectRatio}
	if req.Model == entity.ImageModelHighQuality {
		imgCfg.ImageSize = c.config.HQImageSize
	}
	if imgCfg.AspectRatio != "" || imgCfg.ImageSize != "" {
		cfg.ImageConfig = &imgCfg
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg)
	observe(model, "generate_image", start, err)
	if err != nil {
		span.RecordError(err)
		return port.ImageData{}, pkgerrors.Wrap(err, pkgerrors.CodeBackendError, "image generation request failed")
	}

	if img, ok := firstImage(resp); ok {
		return img, nil
	}
	return port.ImageData{}, pkgerrors.New(pkgerrors.CodeNoImageData, "backend returned no image data")
}

// firstImage 取响应中第一个内联图像
func firstImage(resp *genai.GenerateContentResponse) (port.ImageData, bool) {
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return port.ImageData{MIMEType: mime, Data: part.InlineData.Data}, true
		}
	}
	return port.ImageData{}, false
}

func observe(model, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.BackendCallTotal.WithLabelValues(model, operation, status).Inc()
	metrics.BackendCallDuration.WithLabelValues(model, operation).Observe(time.Since(start).Seconds())
}
