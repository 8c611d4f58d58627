// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"journal-cover-ai-api/internal/domain/entity"
)

// GenerateCoverRequest 提交封面生成请求
type GenerateCoverRequest struct {
	Title       string `json:"title" binding:"required,max=500"`
	Content     string `json:"content" binding:"required,max=50000"`
	DOI         string `json:"doi,omitempty" binding:"max=255"`
	Authors     string `json:"authors,omitempty" binding:"max=1000"`
	JournalName string `json:"journal_name,omitempty" binding:"max=255"`
	Model       string `json:"model,omitempty"`
	Style       string `json:"style,omitempty"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

// ToArticleRecord 转换为领域文章记录
func (r *GenerateCoverRequest) ToArticleRecord() entity.ArticleRecord {
	return entity.ArticleRecord{
		Title:       r.Title,
		Content:     r.Content,
		DOI:         r.DOI,
		Authors:     r.Authors,
		JournalName: r.JournalName,
	}
}

// ToGenerationConfig 转换为生成配置，缺省字段落回默认值
func (r *GenerateCoverRequest) ToGenerationConfig() entity.GenerationConfig {
	cfg := entity.DefaultGenerationConfig()
	if r.Model != "" {
		cfg.Model = entity.ImageModel(r.Model)
	}
	if r.Style != "" {
		cfg.Style = entity.CoverStyle(r.Style)
	}
	if r.AspectRatio != "" {
		cfg.AspectRatio = entity.AspectRatio(r.AspectRatio)
	}
	return cfg
}

// RefineCoverRequest 润色当前封面请求
type RefineCoverRequest struct {
	Instruction string `json:"instruction" binding:"required,max=2000"`
}

// ResolveDOIRequest DOI 解析请求
type ResolveDOIRequest struct {
	DOI string `json:"doi" binding:"required,max=255"`
}

// SetModeRequest 切换编辑器模式请求
type SetModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SetFocusRequest 设置输入焦点请求，空字段名表示清除焦点
type SetFocusRequest struct {
	Field string `json:"field"`
}

// DragRequest 拖拽指针事件请求
// begin 需要 group，move 需要画布尺寸，end 只需 phase
type DragRequest struct {
	Phase        string  `json:"phase" binding:"required"`
	Group        string  `json:"group,omitempty"`
	PointerX     float64 `json:"pointer_x"`
	PointerY     float64 `json:"pointer_y"`
	CanvasWidth  float64 `json:"canvas_width,omitempty"`
	CanvasHeight float64 `json:"canvas_height,omitempty"`
}

// UpdateCoverTextRequest 更新封面文字请求，仅更新出现的字段
type UpdateCoverTextRequest struct {
	JournalName *string `json:"journal_name,omitempty" binding:"omitempty,max=255"`
	Date        *string `json:"date,omitempty" binding:"omitempty,max=100"`
	VolumeInfo  *string `json:"volume_info,omitempty" binding:"omitempty,max=100"`
	Website     *string `json:"website,omitempty" binding:"omitempty,max=255"`
	Tag         *string `json:"tag,omitempty" binding:"omitempty,max=100"`
	Title       *string `json:"title,omitempty" binding:"omitempty,max=500"`
	Authors     *string `json:"authors,omitempty" binding:"omitempty,max=1000"`
	Footer      *string `json:"footer,omitempty" binding:"omitempty,max=255"`
	DOI         *string `json:"doi,omitempty" binding:"omitempty,max=255"`
}

// FieldMap 收集请求中出现的字段
func (r *UpdateCoverTextRequest) FieldMap() map[entity.FieldName]string {
	fields := make(map[entity.FieldName]string)
	set := func(name entity.FieldName, v *string) {
		if v != nil {
			fields[name] = *v
		}
	}
	set(entity.FieldJournalName, r.JournalName)
	set(entity.FieldDate, r.Date)
	set(entity.FieldVolumeInfo, r.VolumeInfo)
	set(entity.FieldWebsite, r.Website)
	set(entity.FieldTag, r.Tag)
	set(entity.FieldTitle, r.Title)
	set(entity.FieldAuthors, r.Authors)
	set(entity.FieldFooter, r.Footer)
	set(entity.FieldDOI, r.DOI)
	return fields
}

// FontOffsetRequest 字号偏移请求，delta 只接受 ±1
// field 为空时作用于当前焦点字段
type FontOffsetRequest struct {
	Field string `json:"field,omitempty"`
	Delta int    `json:"delta" binding:"required"`
}

// ArticleRecordResponse 文章记录响应
type ArticleRecordResponse struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	DOI         string `json:"doi,omitempty"`
	Authors     string `json:"authors,omitempty"`
	JournalName string `json:"journal_name,omitempty"`
}

// ToArticleRecordResponse 转换文章记录为响应
func ToArticleRecordResponse(r entity.ArticleRecord) *ArticleRecordResponse {
	return &ArticleRecordResponse{
		Title:       r.Title,
		Content:     r.Content,
		DOI:         r.DOI,
		Authors:     r.Authors,
		JournalName: r.JournalName,
	}
}

// GenerationConfigResponse 生成配置响应
type GenerationConfigResponse struct {
	Model       string `json:"model"`
	Style       string `json:"style"`
	AspectRatio string `json:"aspect_ratio"`
}

// PositionResponse 画布百分比坐标
type PositionResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutResponse 四个文字分组的画布位置
type LayoutResponse struct {
	Header  PositionResponse `json:"header"`
	Meta    PositionResponse `json:"meta"`
	Tag     PositionResponse `json:"tag"`
	Content PositionResponse `json:"content"`
}

// CoverTextResponse 封面文字字段响应
type CoverTextResponse struct {
	JournalName string `json:"journal_name"`
	Date        string `json:"date"`
	VolumeInfo  string `json:"volume_info"`
	Website     string `json:"website"`
	Tag         string `json:"tag"`
	Title       string `json:"title"`
	Authors     string `json:"authors"`
	Footer      string `json:"footer"`
	DOI         string `json:"doi,omitempty"`
}

// SessionResponse 会话响应
type SessionResponse struct {
	ID              string                   `json:"id"`
	Status          string                   `json:"status"`
	Record          *ArticleRecordResponse   `json:"record,omitempty"`
	Config          GenerationConfigResponse `json:"config"`
	GeneratedImage  string                   `json:"generated_image,omitempty"`
	GeneratedPrompt string                   `json:"generated_prompt,omitempty"`
	ErrorMessage    string                   `json:"error_message,omitempty"`
	Layout          LayoutResponse           `json:"layout"`
	CoverText       CoverTextResponse        `json:"cover_text"`
	FontOffsets     map[string]int           `json:"font_offsets"`
	FontIndices     map[string]int           `json:"font_indices"`
	EditorMode      string                   `json:"editor_mode"`
	FocusedField    string                   `json:"focused_field,omitempty"`
	Exporting       bool                     `json:"exporting"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ToSessionResponse 转换会话实体为响应
func ToSessionResponse(s *entity.GenerationSession) *SessionResponse {
	if s == nil {
		return nil
	}

	resp := &SessionResponse{
		ID:     s.ID,
		Status: string(s.Status),
		Config: GenerationConfigResponse{
			Model:       string(s.Config.Model),
			Style:       string(s.Config.Style),
			AspectRatio: string(s.Config.AspectRatio),
		},
		GeneratedImage:  s.GeneratedImage,
		GeneratedPrompt: s.GeneratedPrompt,
		ErrorMessage:    s.ErrorMessage,
		Layout: LayoutResponse{
			Header:  PositionResponse{X: s.Layout.Header.X, Y: s.Layout.Header.Y},
			Meta:    PositionResponse{X: s.Layout.Meta.X, Y: s.Layout.Meta.Y},
			Tag:     PositionResponse{X: s.Layout.Tag.X, Y: s.Layout.Tag.Y},
			Content: PositionResponse{X: s.Layout.Content.X, Y: s.Layout.Content.Y},
		},
		CoverText: CoverTextResponse{
			JournalName: s.Metadata.JournalName,
			Date:        s.Metadata.Date,
			VolumeInfo:  s.Metadata.VolumeInfo,
			Website:     s.Metadata.Website,
			Tag:         s.Metadata.Tag,
			Title:       s.Metadata.Title,
			Authors:     s.Metadata.Authors,
			Footer:      s.Metadata.Footer,
			DOI:         s.Metadata.DOI,
		},
		FontOffsets:  make(map[string]int, len(s.FontOffsets)),
		FontIndices:  make(map[string]int, len(entity.CoverFields)),
		EditorMode:   string(s.EditorMode),
		FocusedField: string(s.FocusedField),
		Exporting:    s.Exporting,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}

	if s.Record.Title != "" || s.Record.Content != "" {
		resp.Record = ToArticleRecordResponse(s.Record)
	}

	for field, offset := range s.FontOffsets {
		resp.FontOffsets[string(field)] = offset
	}
	for _, field := range entity.CoverFields {
		resp.FontIndices[string(field)] = entity.FontIndexFor(field, s.Metadata, s.FontOffsets)
	}

	return resp
}
