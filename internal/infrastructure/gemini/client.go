// Package gemini 提供基于 google.golang.org/genai 的生成后端实现
package gemini

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"google.golang.org/genai"

	"journal-cover-ai-api/internal/config"
	"journal-cover-ai-api/internal/domain/entity"
	pkgerrors "journal-cover-ai-api/pkg/errors"
)

var tracer = otel.Tracer("gemini")

// Client Gemini 后端客户端
// 快速档与高质量档可使用不同凭证，未配置的档位在调用时返回凭证缺失
type Client struct {
	config  config.BackendConfig
	primary *genai.Client
	hq      *genai.Client
}

// NewClient 创建 Gemini 客户端
// 凭证缺失不阻止进程启动，对应档位的调用会返回 503
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	c := &Client{config: cfg.Backend}

	if key := strings.TrimSpace(cfg.Backend.APIKey); key != "" {
		gc, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		c.primary = gc
	}

	switch {
	case strings.TrimSpace(cfg.Backend.HQAPIKey) != "":
		gc, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  strings.TrimSpace(cfg.Backend.HQAPIKey),
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini hq client: %w", err)
		}
		c.hq = gc
	case !cfg.Backend.CredentialGate:
		// 未启用凭证门禁时高质量档共用主凭证
		c.hq = c.primary
	}

	return c, nil
}

// EnsureModelAccess 校验指定档位的凭证是否就绪
func (c *Client) EnsureModelAccess(model entity.ImageModel) error {
	switch model {
	case entity.ImageModelHighQuality:
		if c.hq == nil {
			return pkgerrors.New(pkgerrors.CodeCredentialMissing, "no API credential configured").
				WithDetail("high quality model requires GEMINI_HQ_API_KEY")
		}
	default:
		if c.primary == nil {
			return pkgerrors.New(pkgerrors.CodeCredentialMissing, "no API credential configured").
				WithDetail("GEMINI_API_KEY is not set")
		}
	}
	return nil
}

// imageTarget 返回档位对应的客户端与具体模型名
func (c *Client) imageTarget(model entity.ImageModel) (*genai.Client, string, error) {
	if err := c.EnsureModelAccess(model); err != nil {
		return nil, "", err
	}
	if model == entity.ImageModelHighQuality {
		return c.hq, c.config.HQImageModel, nil
	}
	return c.primary, c.config.FastImageModel, nil
}

func (c *Client) textClient() (*genai.Client, error) {
	if c.primary == nil {
		return nil, pkgerrors.New(pkgerrors.CodeCredentialMissing, "no API credential configured").
			WithDetail("GEMINI_API_KEY is not set")
	}
	return c.primary, nil
}

// callContext 应用统一的后端调用超时
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.Timeout > 0 {
		return context.WithTimeout(ctx, c.config.Timeout)
	}
	return ctx, func() {}
}
