package entity

import (
	"errors"
	"fmt"
	"time"
)

// SessionStatus 会话状态，驱动哪些操作可用
type SessionStatus string

const (
	SessionStatusIdle       SessionStatus = "idle"
	SessionStatusAnalyzing  SessionStatus = "analyzing"
	SessionStatusGenerating SessionStatus = "generating"
	SessionStatusRefining   SessionStatus = "refining"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusError      SessionStatus = "error"
)

// EditorMode 编辑器交互模式，布局模式下才允许拖拽
type EditorMode string

const (
	ModeEdit   EditorMode = "edit"
	ModeLayout EditorMode = "layout"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrStaleOperation    = errors.New("stale operation token")
	ErrNoGeneratedImage  = errors.New("session has no generated image")
	ErrExportInProgress  = errors.New("export already in progress")
)

// GenerationSession 封面生成会话
// 状态变换采用值语义：每个变换方法接收当前会话值，返回新的会话值，
// 非法变换返回 ErrInvalidTransition
type GenerationSession struct {
	ID              string           `json:"id"`
	Status          SessionStatus    `json:"status"`
	Record          ArticleRecord    `json:"record"`
	Config          GenerationConfig `json:"config"`
	GeneratedImage  string           `json:"generated_image,omitempty"`
	GeneratedPrompt string           `json:"generated_prompt,omitempty"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	Layout          LayoutState      `json:"layout"`
	Metadata        CoverMetadata    `json:"metadata"`
	FontOffsets     FontOffsetMap    `json:"font_offsets"`
	EditorMode      EditorMode       `json:"editor_mode"`
	FocusedField    FieldName        `json:"focused_field,omitempty"`
	Drag            DragState        `json:"-"`
	Exporting       bool             `json:"exporting"`
	OpToken         string           `json:"-"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewGenerationSession 创建空闲状态的新会话
func NewGenerationSession(id string, now time.Time) GenerationSession {
	return GenerationSession{
		ID:          id,
		Status:      SessionStatusIdle,
		Config:      DefaultGenerationConfig(),
		Layout:      DefaultLayout(),
		Metadata:    DefaultCoverMetadata(now),
		FontOffsets: FontOffsetMap{},
		EditorMode:  ModeEdit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Busy 会话是否有操作在途
func (s GenerationSession) Busy() bool {
	switch s.Status {
	case SessionStatusAnalyzing, SessionStatusGenerating, SessionStatusRefining:
		return true
	}
	return false
}

// CanSubmit 当前状态是否允许发起新的生成
// error 状态下允许直接重试，无需先手动重置
func (s GenerationSession) CanSubmit() bool {
	switch s.Status {
	case SessionStatusIdle, SessionStatusCompleted, SessionStatusError:
		return true
	}
	return false
}

// BeginGeneration 提交新的生成请求：idle/completed/error → analyzing
// 记录与配置固定到本次请求，旧图像与提示词被清除；导出期间拒绝
func (s GenerationSession) BeginGeneration(record ArticleRecord, config GenerationConfig, token string) (GenerationSession, error) {
	if s.Exporting {
		return s, ErrExportInProgress
	}
	if !s.CanSubmit() {
		return s, transitionErr(s.Status, "submit")
	}
	s.Status = SessionStatusAnalyzing
	s.Record = record
	s.Config = config
	s.GeneratedImage = ""
	s.GeneratedPrompt = ""
	s.ErrorMessage = ""
	s.OpToken = token
	s.Metadata = s.Metadata.MergeRecord(record)
	s.UpdatedAt = time.Now()
	return s, nil
}

// PromptReady 视觉描述完成：analyzing → generating
func (s GenerationSession) PromptReady(prompt string) (GenerationSession, error) {
	if s.Status != SessionStatusAnalyzing {
		return s, transitionErr(s.Status, "prompt ready")
	}
	s.Status = SessionStatusGenerating
	s.GeneratedPrompt = prompt
	s.UpdatedAt = time.Now()
	return s, nil
}

// CompleteGeneration 图像就绪：generating → completed
func (s GenerationSession) CompleteGeneration(image string) (GenerationSession, error) {
	if s.Status != SessionStatusGenerating {
		return s, transitionErr(s.Status, "complete generation")
	}
	s.Status = SessionStatusCompleted
	s.GeneratedImage = image
	s.UpdatedAt = time.Now()
	return s, nil
}

// BeginRefinement 提交润色请求：completed/error → refining，复用当前配置
// 润色失败后图像仍在，error 状态下允许再次润色；导出期间拒绝
func (s GenerationSession) BeginRefinement(token string) (GenerationSession, error) {
	if s.Exporting {
		return s, ErrExportInProgress
	}
	if s.Status != SessionStatusCompleted && s.Status != SessionStatusError {
		return s, transitionErr(s.Status, "refine")
	}
	if s.GeneratedImage == "" {
		return s, ErrNoGeneratedImage
	}
	s.Status = SessionStatusRefining
	s.ErrorMessage = ""
	s.OpToken = token
	s.UpdatedAt = time.Now()
	return s, nil
}

// CompleteRefinement 润色完成：refining → completed，替换图像
func (s GenerationSession) CompleteRefinement(image string) (GenerationSession, error) {
	if s.Status != SessionStatusRefining {
		return s, transitionErr(s.Status, "complete refinement")
	}
	s.Status = SessionStatusCompleted
	s.GeneratedImage = image
	s.UpdatedAt = time.Now()
	return s, nil
}

// Fail 阶段失败：analyzing/generating/refining → error
// 不触碰 GeneratedImage：润色失败时保留上一张成功图像供重试
func (s GenerationSession) Fail(message string) (GenerationSession, error) {
	if !s.Busy() {
		return s, transitionErr(s.Status, "fail")
	}
	s.Status = SessionStatusError
	s.ErrorMessage = message
	s.UpdatedAt = time.Now()
	return s, nil
}

// Reset 完整重置回 idle：销毁图像、提示词、记录与配置
// 布局、封面文字与字号偏移独立于图像内容，保持不变
func (s GenerationSession) Reset() GenerationSession {
	s.Status = SessionStatusIdle
	s.Record = ArticleRecord{}
	s.Config = DefaultGenerationConfig()
	s.GeneratedImage = ""
	s.GeneratedPrompt = ""
	s.ErrorMessage = ""
	s.OpToken = ""
	s.Drag = DragState{}
	s.UpdatedAt = time.Now()
	return s
}

// WithMode 切换编辑器交互模式
// 任何切换都会结束在途拖拽，进入排版模式时同时清除输入焦点
func (s GenerationSession) WithMode(mode EditorMode) (GenerationSession, error) {
	if mode != ModeEdit && mode != ModeLayout {
		return s, fmt.Errorf("unknown editor mode: %q", mode)
	}
	s.EditorMode = mode
	s.Drag = DragState{}
	if mode == ModeLayout {
		s.FocusedField = ""
	}
	s.UpdatedAt = time.Now()
	return s, nil
}

// WithFocus 设置当前持有输入焦点的字段，空字段名表示清除焦点
func (s GenerationSession) WithFocus(field FieldName) GenerationSession {
	s.FocusedField = field
	s.UpdatedAt = time.Now()
	return s
}

// WithMetadataField 更新单个封面文字字段
func (s GenerationSession) WithMetadataField(field FieldName, value string) (GenerationSession, error) {
	next, ok := s.Metadata.WithField(field, value)
	if !ok {
		return s, fmt.Errorf("unknown cover field: %q", field)
	}
	s.Metadata = next
	s.UpdatedAt = time.Now()
	return s, nil
}

// AdjustFontOffset 对指定字段叠加一档字号偏移
// 偏移不在此处收敛，换算字号时才落回合法索引区间
func (s GenerationSession) AdjustFontOffset(field FieldName, delta int) (GenerationSession, error) {
	if _, ok := s.Metadata.Field(field); !ok {
		return s, fmt.Errorf("unknown cover field: %q", field)
	}
	s.FontOffsets = s.FontOffsets.With(field, delta)
	s.UpdatedAt = time.Now()
	return s, nil
}

// BeginExport 进入导出：强制编辑模式、清除焦点与在途拖拽，并上导出互斥标记
// 同一会话同时只允许一次导出，生成或润色在途时拒绝
func (s GenerationSession) BeginExport() (GenerationSession, error) {
	if s.Exporting {
		return s, ErrExportInProgress
	}
	if s.Busy() {
		return s, transitionErr(s.Status, "export")
	}
	s.EditorMode = ModeEdit
	s.FocusedField = ""
	s.Drag = DragState{}
	s.Exporting = true
	s.UpdatedAt = time.Now()
	return s, nil
}

// EndExport 结束导出并恢复导出前的编辑器模式
// 无论导出成功与否都必须调用
func (s GenerationSession) EndExport(restore EditorMode) GenerationSession {
	s.Exporting = false
	if restore == ModeEdit || restore == ModeLayout {
		s.EditorMode = restore
	}
	s.UpdatedAt = time.Now()
	return s
}

func transitionErr(from SessionStatus, action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, from)
}
