package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"go.opentelemetry.io/otel"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"journal-cover-ai-api/internal/domain/entity"
)

var tracer = otel.Tracer("imaging")

// A4 参考画布在 96 DPI 下的像素尺寸
const (
	refWidth  = 794
	refHeight = 1123
)

// RenderInput 合成输入，Density 为相对参考画布的像素密度倍数
type RenderInput struct {
	// Image 封面图像原始字节，空表示白底
	Image       []byte
	Layout      entity.LayoutState
	Metadata    entity.CoverMetadata
	FontOffsets entity.FontOffsetMap
	Density     int
}

// Compositor 将会话的封面状态栅格化为 A4 比例位图
type Compositor struct {
	regular *sfnt.Font
	bold    *sfnt.Font
}

// NewCompositor 创建合成器并解析内置字体
func NewCompositor() (*Compositor, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &Compositor{regular: regular, bold: bold}, nil
}

// boldFields 以粗体渲染的字段
var boldFields = map[entity.FieldName]bool{
	entity.FieldJournalName: true,
	entity.FieldTag:         true,
	entity.FieldTitle:       true,
}

// Render 生成完整封面位图：白底、满幅图像、按布局定位的文字层
func (c *Compositor) Render(ctx context.Context, in RenderInput) (*image.RGBA, error) {
	_, span := tracer.Start(ctx, "imaging.Compositor.Render")
	defer span.End()

	density := in.Density
	if density < 1 {
		density = 1
	}
	w, h := refWidth*density, refHeight*density

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	hasImage := false
	if len(in.Image) > 0 {
		img, _, err := image.Decode(bytes.NewReader(in.Image))
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to decode cover image: %w", err)
		}
		coverFill(canvas, img)
		hasImage = true
	}

	// 白底用深色文字，图像上用白字加阴影保证可读
	ink := color.Color(color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff})
	var shadow color.Color
	if hasImage {
		ink = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		shadow = color.RGBA{A: 0xa0}
	}

	for _, group := range entity.CoverGroups {
		pos, _ := in.Layout.Position(group)
		if err := c.drawGroup(canvas, in, group, pos, density, ink, shadow); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}
	return canvas, nil
}

// coverFill 将图像等比放大到完全覆盖画布并居中裁剪
func coverFill(dst *image.RGBA, src image.Image) {
	db, sb := dst.Bounds(), src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return
	}
	scale := math.Max(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	dw := int(math.Ceil(float64(sb.Dx()) * scale))
	dh := int(math.Ceil(float64(sb.Dy()) * scale))
	x := (db.Dx() - dw) / 2
	y := (db.Dy() - dh) / 2
	xdraw.CatmullRom.Scale(dst, image.Rect(x, y, x+dw, y+dh), src, sb, xdraw.Over, nil)
}

// drawGroup 在组锚点处逐行堆叠非空字段
func (c *Compositor) drawGroup(canvas *image.RGBA, in RenderInput, group entity.GroupKey, pos entity.Position, density int, ink, shadow color.Color) error {
	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()
	x := int(pos.X / 100 * float64(w))
	y := int(pos.Y / 100 * float64(h))
	maxWidth := w - x - w/20
	if maxWidth < w/10 {
		maxWidth = w / 10
	}

	for _, field := range entity.GroupFields(group) {
		value, _ := in.Metadata.Field(field)
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		face, err := c.face(field, in, density)
		if err != nil {
			return err
		}
		metrics := face.Metrics()
		lineHeight := metrics.Height.Ceil()
		if lineHeight <= 0 {
			lineHeight = metrics.Ascent.Ceil() + metrics.Descent.Ceil()
		}

		for _, line := range wrapText(face, value, maxWidth) {
			baseline := y + metrics.Ascent.Ceil()
			if shadow != nil {
				drawLine(canvas, face, line, x+density, baseline+density, shadow)
			}
			drawLine(canvas, face, line, x, baseline, ink)
			y += lineHeight
		}
		y += lineHeight / 4
		face.Close()
	}
	return nil
}

// face 按字段的有效字号构建字形
func (c *Compositor) face(field entity.FieldName, in RenderInput, density int) (font.Face, error) {
	f := c.regular
	if boldFields[field] {
		f = c.bold
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    entity.FontSizeFor(field, in.Metadata, in.FontOffsets),
		DPI:     72 * float64(density),
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build font face: %w", err)
	}
	return face, nil
}

// wrapText 按可用像素宽度对文本断行
func wrapText(face font.Face, s string, maxWidth int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	drawer := &font.Drawer{Face: face}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if drawer.MeasureString(candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

func drawLine(canvas *image.RGBA, face font.Face, s string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
