package translator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const opTranslateDocument = "failed to translate document"

// OutputPrefix 生成文件名前缀
const OutputPrefix = "translated_"

// TextTranslator 文档流水线依赖的翻译能力，*Client 实现了它
type TextTranslator interface {
	Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error)
}

// DocumentResult 文档翻译结果
type DocumentResult struct {
	TranslatedText string
	PDFPath        string
	Pages          int
}

// DocumentTranslator 文档翻译流水线: 读取 → 提取文本 → 翻译 → 生成 PDF
type DocumentTranslator struct {
	Translator TextTranslator
	Extractor  TextExtractor
	Writer     PDFWriter
	OutputDir  string
	Logger     *slog.Logger
}

// NewDocumentTranslator 创建文档翻译器
func NewDocumentTranslator(t TextTranslator, extractor TextExtractor, writer PDFWriter, outputDir string, logger *slog.Logger) *DocumentTranslator {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentTranslator{
		Translator: t,
		Extractor:  extractor,
		Writer:     writer,
		OutputDir:  outputDir,
		Logger:     logger,
	}
}

// OutputPath 输出文件路径 <OutputDir>/translated_<输入文件名>
func (dt *DocumentTranslator) OutputPath(inputPath string) string {
	return filepath.Join(dt.OutputDir, OutputPrefix+filepath.Base(inputPath))
}

// TranslateDocument 翻译 PDF 文档。任一步失败即终止，错误带上文档翻译前缀
func (dt *DocumentTranslator) TranslateDocument(ctx context.Context, filePath, sourceLanguage, targetLanguage string) (*DocumentResult, error) {
	start := time.Now()
	log := dt.Logger.With("file", filepath.Base(filePath), "source", sourceLanguage, "target", targetLanguage)
	log.Info("开始翻译文档")

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, withOp(opTranslateDocument, KindExtraction, "could not read the PDF", err)
	}

	extracted, err := dt.Extractor.ExtractText(data)
	if err != nil {
		return nil, withOp(opTranslateDocument, KindExtraction, "could not read the PDF", err)
	}
	if strings.TrimSpace(extracted.Text) == "" {
		log.Warn("PDF 中没有可翻译的文本", "pages", extracted.Pages)
		return nil, &Error{Kind: KindExtraction, Op: opTranslateDocument, Msg: ErrNoText.Error(), Cause: ErrNoText}
	}
	log.Debug("文本提取完成", "pages", extracted.Pages, "chars", len(extracted.Text))

	translated, err := dt.Translator.Translate(ctx, extracted.Text, sourceLanguage, targetLanguage)
	if err != nil {
		return nil, withOp(opTranslateDocument, KindTranslation, "translation service error", err)
	}

	outputPath := dt.OutputPath(filePath)
	if err := dt.Writer.WritePDF(translated, outputPath, targetLanguage); err != nil {
		return nil, withOp(opTranslateDocument, KindGeneration, "could not generate the translated PDF", err)
	}

	log.Info("文档翻译完成", "output", outputPath, "duration", time.Since(start))
	return &DocumentResult{
		TranslatedText: translated,
		PDFPath:        outputPath,
		Pages:          extracted.Pages,
	}, nil
}
