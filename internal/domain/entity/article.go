// Package entity 定义领域实体
package entity

import (
	"errors"
	"strings"
)

// ArticleRecord 标准化的文章元数据记录
// 由解析器或手动输入产生，进入生成流水线后不可变
type ArticleRecord struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	DOI         string `json:"doi,omitempty"`
	Authors     string `json:"authors,omitempty"`
	JournalName string `json:"journal_name,omitempty"`
}

var (
	ErrEmptyTitle   = errors.New("article title is required")
	ErrEmptyContent = errors.New("article content is required")
)

// Validate 校验生成所需的最小字段
func (r ArticleRecord) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(r.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}
