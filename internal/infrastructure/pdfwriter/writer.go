// Package pdfwriter 实现无外部依赖的最小 PDF 文档生成
// 仅覆盖导出封面所需的子集：单页、整页 JPEG 图像、文档信息字典
package pdfwriter

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"strings"
	"time"
)

const pdfVersion = "1.4"

// A4 页面尺寸（点，1 点 = 1/72 英寸）
const (
	A4WidthPt  = 595.276
	A4HeightPt = 841.890
)

// PointsFromMillimeters 毫米转点
func PointsFromMillimeters(mm float64) float64 {
	return mm * 72.0 / 25.4
}

// Config 文档选项
type Config struct {
	// PageWidth/PageHeight 页面尺寸（点）
	PageWidth  float64
	PageHeight float64
	Title      string
	Creator    string
	Producer   string
	// Compress 压缩内容流
	Compress bool
}

// DefaultConfig 返回 A4 竖版默认配置
func DefaultConfig() *Config {
	return &Config{
		PageWidth:  A4WidthPt,
		PageHeight: A4HeightPt,
		Producer:   "journal-cover-ai-api",
		Compress:   true,
	}
}

// Document PDF 文档构建器
// 对象 1 与 2 预留给 Catalog 和 Pages，addObject 返回的编号即最终编号
type Document struct {
	config  *Config
	objects [][]byte
	pages   []int
}

// NewDocument 创建文档构建器
func NewDocument(cfg *Config) *Document {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Document{
		config:  cfg,
		objects: make([][]byte, 2),
	}
}

// addObject 登记对象并返回其编号（1 起）
func (d *Document) addObject(content []byte) int {
	d.objects = append(d.objects, content)
	return len(d.objects)
}

// AddImagePage 添加一页整页铺满的 JPEG 图像
// pxWidth/pxHeight 为图像像素尺寸，页面尺寸由配置决定
func (d *Document) AddImagePage(jpeg []byte, pxWidth, pxHeight int) {
	var imgObj bytes.Buffer
	fmt.Fprintf(&imgObj, "<< /Type /XObject\n/Subtype /Image\n/Width %d\n/Height %d\n/ColorSpace /DeviceRGB\n/BitsPerComponent 8\n/Filter /DCTDecode\n/Length %d\n>>\nstream\n",
		pxWidth, pxHeight, len(jpeg))
	imgObj.Write(jpeg)
	imgObj.WriteString("\nendstream")
	imgNum := d.addObject(imgObj.Bytes())

	// 图像经 cm 变换放大到整个页面
	content := fmt.Sprintf("q\n%.2f 0 0 %.2f 0 0 cm\n/Im0 Do\nQ\n",
		d.config.PageWidth, d.config.PageHeight)
	contentNum := d.addObject(d.buildStream([]byte(content)))

	pageObj := fmt.Sprintf("<< /Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 %.2f %.2f]\n/Contents %d 0 R\n/Resources << /XObject << /Im0 %d 0 R >> >>\n>>",
		d.config.PageWidth, d.config.PageHeight, contentNum, imgNum)
	pageNum := d.addObject([]byte(pageObj))

	d.pages = append(d.pages, pageNum)
}

// buildStream 构造流对象，按配置压缩
func (d *Document) buildStream(data []byte) []byte {
	filter := ""
	if d.config.Compress {
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		w.Write(data)
		w.Close()
		data = buf.Bytes()
		filter = "/Filter /FlateDecode\n"
	}

	var obj bytes.Buffer
	fmt.Fprintf(&obj, "<< /Length %d\n%s>>\nstream\n", len(data), filter)
	obj.Write(data)
	obj.WriteString("\nendstream")
	return obj.Bytes()
}

// Build 输出完整 PDF 文件
func (d *Document) Build() []byte {
	var kids strings.Builder
	kids.WriteString("[")
	for i, pageNum := range d.pages {
		if i > 0 {
			kids.WriteString(" ")
		}
		fmt.Fprintf(&kids, "%d 0 R", pageNum)
	}
	kids.WriteString("]")

	d.objects[0] = []byte("<< /Type /Catalog\n/Pages 2 0 R\n>>")
	d.objects[1] = []byte(fmt.Sprintf("<< /Type /Pages\n/Kids %s\n/Count %d\n>>",
		kids.String(), len(d.pages)))

	infoNum := d.addObject([]byte(d.buildInfoDict()))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n", pdfVersion)
	buf.WriteString("%\xE2\xE3\xCF\xD3\n")

	xref := make([]int, len(d.objects)+1)
	for i, obj := range d.objects {
		xref[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", i+1)
		buf.Write(obj)
		buf.WriteString("\nendobj\n")
	}

	xrefPos := buf.Len()
	buf.WriteString("xref\n")
	fmt.Fprintf(&buf, "0 %d\n", len(d.objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(d.objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", xref[i])
	}

	buf.WriteString("trailer\n")
	fmt.Fprintf(&buf, "<< /Size %d\n/Root 1 0 R\n/Info %d 0 R\n>>\n", len(d.objects)+1, infoNum)
	buf.WriteString("startxref\n")
	fmt.Fprintf(&buf, "%d\n", xrefPos)
	buf.WriteString("%%EOF\n")

	return buf.Bytes()
}

// buildInfoDict 构造文档信息字典
func (d *Document) buildInfoDict() string {
	var sb strings.Builder
	sb.WriteString("<<\n")
	if d.config.Title != "" {
		fmt.Fprintf(&sb, "/Title (%s)\n", escapePDFString(d.config.Title))
	}
	if d.config.Creator != "" {
		fmt.Fprintf(&sb, "/Creator (%s)\n", escapePDFString(d.config.Creator))
	}
	if d.config.Producer != "" {
		fmt.Fprintf(&sb, "/Producer (%s)\n", escapePDFString(d.config.Producer))
	}

	dateStr := time.Now().UTC().Format("D:20060102150405Z")
	fmt.Fprintf(&sb, "/CreationDate (%s)\n", dateStr)
	fmt.Fprintf(&sb, "/ModDate (%s)\n", dateStr)
	sb.WriteString(">>")
	return sb.String()
}

// escapePDFString 转义 PDF 字面字符串中的特殊字符
func escapePDFString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "(", "\\(")
	s = strings.ReplaceAll(s, ")", "\\)")
	return s
}
