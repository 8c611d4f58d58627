package entity

import (
	"strings"
	"time"
)

// FieldName 封面可编辑文字字段名
type FieldName string

const (
	FieldJournalName FieldName = "journal_name"
	FieldDate        FieldName = "date"
	FieldVolumeInfo  FieldName = "volume_info"
	FieldWebsite     FieldName = "website"
	FieldTag         FieldName = "tag"
	FieldTitle       FieldName = "title"
	FieldAuthors     FieldName = "authors"
	FieldFooter      FieldName = "footer"
	FieldDOI         FieldName = "doi"
)

// CoverFields 全部封面字段，按展示顺序排列
var CoverFields = []FieldName{
	FieldJournalName,
	FieldDate,
	FieldVolumeInfo,
	FieldWebsite,
	FieldTag,
	FieldTitle,
	FieldAuthors,
	FieldFooter,
	FieldDOI,
}

// CoverMetadata 覆盖在封面图上的可编辑文字字段
type CoverMetadata struct {
	JournalName string `json:"journal_name"`
	Date        string `json:"date"`
	VolumeInfo  string `json:"volume_info"`
	Website     string `json:"website"`
	Tag         string `json:"tag"`
	Title       string `json:"title"`
	Authors     string `json:"authors"`
	Footer      string `json:"footer"`
	DOI         string `json:"doi"`
}

// DefaultCoverMetadata 返回会话创建时的占位字段
func DefaultCoverMetadata(now time.Time) CoverMetadata {
	return CoverMetadata{
		JournalName: "JOURNAL",
		Date:        now.Format("January 2006"),
		VolumeInfo:  "Vol. 1 · No. 1",
		Website:     "www.journalcover.example",
		Tag:         "FEATURED RESEARCH",
		Title:       "Your Article Title Appears Here",
		Authors:     "Author One, Author Two",
		Footer:      "The International Journal of Science",
		DOI:         "",
	}
}

// MergeRecord 合并新到达的文章记录
// 仅非空字段覆盖现有值，期刊名统一转为大写；这是合并而非替换
func (m CoverMetadata) MergeRecord(r ArticleRecord) CoverMetadata {
	if v := strings.TrimSpace(r.JournalName); v != "" {
		m.JournalName = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(r.Title); v != "" {
		m.Title = v
	}
	if v := strings.TrimSpace(r.Authors); v != "" {
		m.Authors = v
	}
	if v := strings.TrimSpace(r.DOI); v != "" {
		m.DOI = v
	}
	return m
}

// ValidCoverField 字段名是否为合法封面字段
func ValidCoverField(name FieldName) bool {
	_, ok := CoverMetadata{}.Field(name)
	return ok
}

// Field 返回指定字段当前值
func (m CoverMetadata) Field(name FieldName) (string, bool) {
	switch name {
	case FieldJournalName:
		return m.JournalName, true
	case FieldDate:
		return m.Date, true
	case FieldVolumeInfo:
		return m.VolumeInfo, true
	case FieldWebsite:
		return m.Website, true
	case FieldTag:
		return m.Tag, true
	case FieldTitle:
		return m.Title, true
	case FieldAuthors:
		return m.Authors, true
	case FieldFooter:
		return m.Footer, true
	case FieldDOI:
		return m.DOI, true
	}
	return "", false
}

// WithField 返回更新了单个字段的新元数据
func (m CoverMetadata) WithField(name FieldName, value string) (CoverMetadata, bool) {
	switch name {
	case FieldJournalName:
		m.JournalName = value
	case FieldDate:
		m.Date = value
	case FieldVolumeInfo:
		m.VolumeInfo = value
	case FieldWebsite:
		m.Website = value
	case FieldTag:
		m.Tag = value
	case FieldTitle:
		m.Title = value
	case FieldAuthors:
		m.Authors = value
	case FieldFooter:
		m.Footer = value
	case FieldDOI:
		m.DOI = value
	default:
		return m, false
	}
	return m, true
}
