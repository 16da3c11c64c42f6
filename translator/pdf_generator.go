package translator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFWriter 把译文写成 PDF 文件
type PDFWriter interface {
	WritePDF(text, outputPath, targetLanguage string) error
}

// Letter 纸张，12pt，文本块从 (100, 100) 开始
const (
	textOriginX   = 100.0
	textOriginY   = 100.0
	marginRight   = 72.0
	marginBottom  = 72.0
	fontSize      = 12.0
	lineHeight    = fontSize * 1.25
	utf8FontAlias = "translated"
)

// PDFGenerator 基于 gofpdf 的 PDF 生成器
type PDFGenerator struct {
	// FontPath 显式指定的 UTF-8 TrueType 字体，为空时按目标语言查找系统字体
	FontPath string
	Fonts    *SystemFontDetector
	Logger   *slog.Logger
}

// NewPDFGenerator 创建PDF生成器
func NewPDFGenerator(fontPath string, logger *slog.Logger) *PDFGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFGenerator{
		FontPath: fontPath,
		Fonts:    NewSystemFontDetector(),
		Logger:   logger,
	}
}

// WritePDF 生成 PDF。先写临时文件再改名，失败时不会留下半个文件
func (g *PDFGenerator) WritePDF(text, outputPath, targetLanguage string) error {
	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.SetTitle(filepath.Base(outputPath), true)
	doc.SetCreator("pdf-translator", true)
	doc.SetSubject("Translation ("+targetLanguage+")", true)

	// 超出一页时自动分页，新页面沿用同样的左/上边距
	doc.SetMargins(textOriginX, textOriginY, marginRight)
	doc.SetAutoPageBreak(true, marginBottom)

	render := g.setFont(doc, targetLanguage)

	doc.AddPage()
	doc.SetXY(textOriginX, textOriginY)
	pageWidth, _ := doc.GetPageSize()
	doc.MultiCell(pageWidth-textOriginX-marginRight, lineHeight, render(text), "", "L", false)

	if err := doc.Error(); err != nil {
		return fmt.Errorf("rendering PDF: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmpPath := outputPath + ".tmp"
	if err := doc.OutputFileAndClose(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing PDF: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("moving PDF into place: %w", err)
	}

	g.Logger.Debug("PDF 已生成", "path", outputPath, "pages", doc.PageCount())
	return nil
}

// setFont 选择字体，返回对文本的编码转换函数
func (g *PDFGenerator) setFont(doc *gofpdf.Fpdf, targetLanguage string) func(string) string {
	fontPath := g.FontPath
	if fontPath == "" && g.Fonts != nil {
		fontPath = g.Fonts.GetSystemFontPath(targetLanguage)
	}

	if fontPath != "" && fileExists(fontPath) {
		doc.AddUTF8Font(utf8FontAlias, "", fontPath)
		if !doc.Err() {
			doc.SetFont(utf8FontAlias, "", fontSize)
			return func(s string) string { return s }
		}
		g.Logger.Warn("加载字体失败，改用内置字体", "font", fontPath, "error", doc.Error())
		doc.ClearError()
	}

	// 内置字体只支持 cp1252
	g.Logger.Warn("未找到 UTF-8 字体（可设置 PDF_FONT_PATH），改用 Helvetica，cp1252 以外的字符无法显示",
		"target", targetLanguage)
	doc.SetFont("Helvetica", "", fontSize)
	return doc.UnicodeTranslatorFromDescriptor("")
}

// fileExists 检查文件是否存在
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// isTrueType gofpdf 只能嵌入 .ttf
func isTrueType(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ttf")
}
