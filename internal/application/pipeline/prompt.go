package pipeline

import (
	_ "embed"
	"fmt"
	"strings"

	"journal-cover-ai-api/internal/application/port"
	"journal-cover-ai-api/internal/domain/entity"
)

//go:embed templates/describe_v1.system.txt
var describeSystemTemplate string

//go:embed templates/describe_v1.user.txt
var describeUserTemplate string

// fallbackDescription 描述阶段产出为空时使用的通用场景描述
const fallbackDescription = "An elegant abstract composition of flowing luminous ribbons " +
	"and drifting geometric particles over a deep indigo gradient, lit by soft volumetric " +
	"light with subtle depth of field, evoking the moment of scientific discovery as pure form."

// genericJournalContext 未提供期刊名时的通用定位描述
const genericJournalContext = "a premier scientific journal such as Nature, Science, or Cell"

// styleDescriptors 封面风格到提示词片段的映射
var styleDescriptors = map[entity.CoverStyle]string{
	entity.StylePhotorealistic:   "hyper-realistic photography with natural lighting and shallow depth of field",
	entity.StyleAbstract:         "abstract art built from bold geometric shapes and expressive color fields",
	entity.StyleMinimalist:       "minimalist design with generous negative space and a restrained palette",
	entity.StyleWatercolor:       "delicate watercolor painting with soft washes and visible paper grain",
	entity.StyleOilPainting:      "classical oil painting with rich impasto brushwork and dramatic chiaroscuro",
	entity.StyleCyberpunk:        "cyberpunk aesthetic with neon glow and a high-contrast night palette",
	entity.StyleFlatIllustration: "flat vector illustration with clean outlines and a limited harmonious palette",
	entity.Style3DRender:         "polished 3D render with physically based materials and soft studio lighting",
}

// buildDescribeRequest 组装描述阶段的文本生成请求
// 期刊名为空时退回到通用期刊定位，风格描述符由配置解析
func buildDescribeRequest(record entity.ArticleRecord, config entity.GenerationConfig) port.TextRequest {
	journalContext := genericJournalContext
	if name := strings.TrimSpace(record.JournalName); name != "" {
		journalContext = fmt.Sprintf("the journal %q", name)
	}
	style, ok := styleDescriptors[config.Style]
	if !ok {
		style = styleDescriptors[entity.StylePhotorealistic]
	}

	system := strings.NewReplacer(
		"{journal_context}", journalContext,
		"{style}", style,
	).Replace(strings.TrimSpace(describeSystemTemplate))

	user := strings.NewReplacer(
		"{title}", strings.TrimSpace(record.Title),
		"{abstract}", strings.TrimSpace(record.Content),
	).Replace(strings.TrimSpace(describeUserTemplate))

	return port.TextRequest{System: system, Prompt: user}
}
