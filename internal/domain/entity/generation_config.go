package entity

import "fmt"

// ImageModel 图像模型档位
type ImageModel string

const (
	ImageModelFast        ImageModel = "fast"
	ImageModelHighQuality ImageModel = "high_quality"
)

// CoverStyle 封面风格描述符
type CoverStyle string

const (
	StylePhotorealistic   CoverStyle = "photorealistic"
	StyleAbstract         CoverStyle = "abstract"
	StyleMinimalist       CoverStyle = "minimalist"
	StyleWatercolor       CoverStyle = "watercolor"
	StyleOilPainting      CoverStyle = "oil-painting"
	StyleCyberpunk        CoverStyle = "cyberpunk"
	StyleFlatIllustration CoverStyle = "flat-illustration"
	Style3DRender         CoverStyle = "3d-render"
)

// AspectRatio 生成图像宽高比
type AspectRatio string

const (
	AspectSquare        AspectRatio = "1:1"
	AspectPortrait      AspectRatio = "3:4"
	AspectLandscape     AspectRatio = "4:3"
	AspectTallPortrait  AspectRatio = "9:16"
	AspectWideLandscape AspectRatio = "16:9"
)

// GenerationConfig 单次生成请求的模型选择
// 请求生命周期内不可变，后续润色复用同一配置
type GenerationConfig struct {
	Model       ImageModel  `json:"model"`
	Style       CoverStyle  `json:"style"`
	AspectRatio AspectRatio `json:"aspect_ratio"`
}

// DefaultGenerationConfig 返回默认生成配置
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Model:       ImageModelFast,
		Style:       StylePhotorealistic,
		AspectRatio: AspectPortrait,
	}
}

var validStyles = map[CoverStyle]bool{
	StylePhotorealistic:   true,
	StyleAbstract:         true,
	StyleMinimalist:       true,
	StyleWatercolor:       true,
	StyleOilPainting:      true,
	StyleCyberpunk:        true,
	StyleFlatIllustration: true,
	Style3DRender:         true,
}

var validAspectRatios = map[AspectRatio]bool{
	AspectSquare:        true,
	AspectPortrait:      true,
	AspectLandscape:     true,
	AspectTallPortrait:  true,
	AspectWideLandscape: true,
}

// Validate 校验配置取值是否在固定枚举内
func (c GenerationConfig) Validate() error {
	if c.Model != ImageModelFast && c.Model != ImageModelHighQuality {
		return fmt.Errorf("unknown image model: %q", c.Model)
	}
	if !validStyles[c.Style] {
		return fmt.Errorf("unknown cover style: %q", c.Style)
	}
	if !validAspectRatios[c.AspectRatio] {
		return fmt.Errorf("unknown aspect ratio: %q", c.AspectRatio)
	}
	return nil
}
