package gemini

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"google.golang.org/genai"

	"journal-cover-ai-api/internal/domain/entity"
	pkgerrors "journal-cover-ai-api/pkg/errors"
	"journal-cover-ai-api/pkg/utils"
)

const extractInstruction = `Extract the following from this academic paper PDF: the exact title, the complete abstract text, the author list, and the journal name. Copy the abstract verbatim without summarizing. Return an empty string for anything the document does not contain.`

// articleSchema 结构化抽取的响应模式
var articleSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":    {Type: genai.TypeString, Description: "exact paper title"},
		"abstract": {Type: genai.TypeString, Description: "complete abstract text"},
		"authors":  {Type: genai.TypeString, Description: "comma separated author list"},
		"journal":  {Type: genai.TypeString, Description: "journal name"},
	},
	Required: []string{"title", "abstract"},
}

// ExtractArticle 从 PDF 原始字节中抽取文章元数据
func (c *Client) ExtractArticle(ctx context.Context, pdf []byte) (entity.ArticleRecord, error) {
	ctx, span := tracer.Start(ctx, "gemini.Client.ExtractArticle")
	defer span.End()

	client, err := c.textClient()
	if err != nil {
		return entity.ArticleRecord{}, err
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	parts := []*genai.Part{
		genai.NewPartFromBytes(pdf, "application/pdf"),
		genai.NewPartFromText(extractInstruction),
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   articleSchema,
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, c.config.TextModel,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg)
	observe(c.config.TextModel, "extract_article", start, err)
	if err != nil {
		span.RecordError(err)
		return entity.ArticleRecord{}, pkgerrors.Wrap(err, pkgerrors.CodeExtractionFailed, "PDF metadata extraction failed")
	}

	var payload struct {
		Title    string `json:"title"`
		Abstract string `json:"abstract"`
		Authors  string `json:"authors"`
		Journal  string `json:"journal"`
	}
	// 结构化输出偶尔仍会带上 Markdown 围栏，先剥离再解析
	if err := json.Unmarshal([]byte(utils.ExtractJSONObject(resp.Text())), &payload); err != nil {
		span.RecordError(err)
		return entity.ArticleRecord{}, pkgerrors.Wrap(err, pkgerrors.CodeExtractionFailed, "PDF metadata extraction failed").
			WithDetail("backend returned malformed JSON")
	}

	return entity.ArticleRecord{
		Title:       strings.TrimSpace(payload.Title),
		Content:     strings.TrimSpace(payload.Abstract),
		Authors:     strings.TrimSpace(payload.Authors),
		JournalName: strings.TrimSpace(payload.Journal),
	}, nil
}
