// Package crossref 提供 Crossref 文献目录查询客户端
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"journal-cover-ai-api/internal/application/port"
	"journal-cover-ai-api/internal/config"
	"journal-cover-ai-api/internal/domain/entity"
	pkgerrors "journal-cover-ai-api/pkg/errors"
)

var tracer = otel.Tracer("crossref")

// Client Crossref works API 客户端
// 相同 DOI 的并发查询通过 singleflight 合并为一次上游请求
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	group     singleflight.Group
}

var _ port.ArticleDirectory = (*Client)(nil)

// NewClient 创建 Crossref 客户端
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Lookup.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.Lookup.BaseURL, "/"),
		// Crossref 礼貌池要求 User-Agent 携带联系邮箱
		userAgent: fmt.Sprintf("%s/%s (mailto:%s)", cfg.App.Name, cfg.App.Version, cfg.Lookup.Mailto),
		http:      &http.Client{Timeout: timeout},
	}
}

// worksEnvelope Crossref works API 响应外层
type worksEnvelope struct {
	Message struct {
		Title  []string `json:"title"`
		Author []struct {
			Given  string `json:"given"`
			Family string `json:"family"`
		} `json:"author"`
		Abstract       string   `json:"abstract"`
		ContainerTitle []string `json:"container-title"`
		DOI            string   `json:"DOI"`
	} `json:"message"`
}

// Lookup 按 DOI 查询文献元数据
// 摘要按 Crossref 原样返回，JATS 标记由上层清理
func (c *Client) Lookup(ctx context.Context, doi string) (entity.ArticleRecord, error) {
	ctx, span := tracer.Start(ctx, "crossref.Client.Lookup",
		trace.WithAttributes(attribute.String("crossref.doi", doi)))
	defer span.End()

	result, err, _ := c.group.Do(doi, func() (interface{}, error) {
		return c.fetch(ctx, doi)
	})
	if err != nil {
		span.RecordError(err)
		return entity.ArticleRecord{}, err
	}
	return result.(entity.ArticleRecord), nil
}

func (c *Client) fetch(ctx context.Context, doi string) (entity.ArticleRecord, error) {
	endpoint := fmt.Sprintf("%s/works/%s", c.baseURL, url.PathEscape(doi))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entity.ArticleRecord{}, fmt.Errorf("failed to build crossref request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return entity.ArticleRecord{}, pkgerrors.Wrap(err, pkgerrors.CodeBackendError, "crossref request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return entity.ArticleRecord{}, pkgerrors.New(pkgerrors.CodeDOINotFound, "DOI lookup failed").
			WithDetail(fmt.Sprintf("DOI %q is not registered with Crossref", doi))
	case resp.StatusCode != http.StatusOK:
		return entity.ArticleRecord{}, pkgerrors.New(pkgerrors.CodeBackendError, "crossref request failed").
			WithDetail(fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	var envelope worksEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return entity.ArticleRecord{}, pkgerrors.Wrap(err, pkgerrors.CodeBackendError, "crossref request failed").
			WithDetail("malformed response body")
	}

	msg := envelope.Message
	record := entity.ArticleRecord{
		Content: msg.Abstract,
		DOI:     msg.DOI,
	}
	if record.DOI == "" {
		record.DOI = doi
	}
	if len(msg.Title) > 0 {
		record.Title = strings.TrimSpace(msg.Title[0])
	}
	if len(msg.ContainerTitle) > 0 {
		record.JournalName = strings.TrimSpace(msg.ContainerTitle[0])
	}
	if len(msg.Author) > 0 {
		names := make([]string, 0, len(msg.Author))
		for _, a := range msg.Author {
			name := strings.TrimSpace(strings.TrimSpace(a.Given) + " " + strings.TrimSpace(a.Family))
			if name != "" {
				names = append(names, name)
			}
		}
		record.Authors = strings.Join(names, ", ")
	}
	return record, nil
}
