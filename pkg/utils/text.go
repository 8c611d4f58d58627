// Package utils 提供通用工具函数
package utils

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeFilename 将名称中的非字母数字字符全部替换为下划线
func SanitizeFilename(name string) string {
	return nonAlphanumeric.ReplaceAllString(name, "_")
}

// Truncate 按字符数截断字符串，超出部分以省略号结尾
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

var jatsTag = regexp.MustCompile(`</?jats:[^>]*>`)

// StripJATSMarkup 去除 Crossref 摘要中的 JATS 标签
func StripJATSMarkup(s string) string {
	return strings.TrimSpace(jatsTag.ReplaceAllString(s, ""))
}

// ExtractJSONObject 尝试从一段可能包含前后缀噪音的文本中提取顶层 JSON（对象或数组）
// 约定：若无法确认 JSON 有效性，则回退为原始输入（trim 后）
func ExtractJSONObject(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return raw
	}

	objStart := strings.Index(raw, "{")
	arrStart := strings.Index(raw, "[")
	start := -1
	end := -1
	switch {
	case objStart >= 0 && (arrStart < 0 || objStart < arrStart):
		start = objStart
		end = strings.LastIndex(raw, "}")
	case arrStart >= 0:
		start = arrStart
		end = strings.LastIndex(raw, "]")
	}
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err == nil {
		if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
			return raw
		}
	}

	dec = json.NewDecoder(strings.NewReader(raw))
	for {
		_, e := dec.Token()
		if e != nil {
			if errors.Is(e, io.EOF) {
				break
			}
			return strings.TrimSpace(s)
		}
	}
	return raw
}
