// Package imaging 提供封面图像的编解码与最终合成
package imaging

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const dataURLPrefix = "data:image/png;base64,"

// EncodeDataURL 将图像字节封装为自描述数据串
// 媒体类型固定标注为 image/png，真实格式由解码方按内容嗅探
func EncodeDataURL(data []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL 解出数据串中的原始图像字节
func DecodeDataURL(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URL")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL: missing payload")
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("unsupported data URL encoding: %q", header)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	return data, nil
}
