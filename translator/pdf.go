package translator

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	dslipakpdf "github.com/dslipak/pdf"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/unicode/norm"
)

// TextExtractor 从 PDF 字节流中提取纯文本
type TextExtractor interface {
	ExtractText(data []byte) (*PDFText, error)
}

// PDFText 提取结果
type PDFText struct {
	Text  string
	Pages int
}

// PDFExtractor 纯 Go 实现：ledongthuc/pdf 为主，dslipak/pdf 兜底，pdfcpu 统计页数
type PDFExtractor struct {
	Logger *slog.Logger
}

// NewPDFExtractor 创建 PDF 文本提取器
func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{Logger: logger}
}

var pdfcpuOnce sync.Once

// ExtractText 依次尝试各个解析库，返回第一个非空结果
func (e *PDFExtractor) ExtractText(data []byte) (*PDFText, error) {
	pages := e.pageCount(data)

	text, err1 := extractWithLedongthuc(data)
	if err1 == nil && strings.TrimSpace(text) != "" {
		return &PDFText{Text: text, Pages: pages}, nil
	}
	if err1 != nil {
		e.Logger.Warn("ledongthuc/pdf 解析失败，尝试 dslipak/pdf", "error", err1)
	}

	text2, err2 := extractWithDslipak(data)
	if err2 == nil {
		return &PDFText{Text: text2, Pages: pages}, nil
	}
	e.Logger.Warn("dslipak/pdf 解析失败", "error", err2)

	if err1 == nil {
		// 能打开但没有文本
		return &PDFText{Text: text, Pages: pages}, nil
	}
	return nil, fmt.Errorf("could not parse PDF: ledongthuc/pdf(%v), dslipak/pdf(%v)", err1, err2)
}

// pageCount 只用于日志与结果元数据，失败返回 0
func (e *PDFExtractor) pageCount(data []byte) int {
	pdfcpuOnce.Do(api.DisableConfigDir)

	n, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		e.Logger.Debug("pdfcpu 无法统计页数", "error", err)
		return 0
	}
	e.Logger.Debug("PDF 页数", "pages", n)
	return n
}

func extractWithLedongthuc(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while parsing: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	pageTexts := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		t, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pageTexts = append(pageTexts, cleanPDFText(t))
	}
	return joinPages(pageTexts), nil
}

func extractWithDslipak(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while parsing: %v", r)
		}
	}()

	reader, err := dslipakpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	pageTexts := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		t, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pageTexts = append(pageTexts, cleanPDFText(t))
	}
	return joinPages(pageTexts), nil
}

func joinPages(pages []string) string {
	nonEmpty := pages[:0]
	for _, p := range pages {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

var spaceRun = regexp.MustCompile(`[ \t]+`)

// cleanPDFText NFC 规范化，合并行内空白，去掉空行
func cleanPDFText(text string) string {
	text = norm.NFC.String(text)
	lines := strings.Split(text, "\n")
	cleanLines := lines[:0]

	for _, line := range lines {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		cleanLines = append(cleanLines, line)
	}

	return strings.Join(cleanLines, "\n")
}
