package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"pdf-translator/middleware"
	"pdf-translator/models"
	"pdf-translator/storage"
	"pdf-translator/translator"

	"github.com/gin-gonic/gin"
)

const (
	endpointText     = "text"
	endpointDocument = "document"

	// 上传表单中的文件字段
	documentField = "document"
)

// TextTranslator 文本翻译能力
type TextTranslator interface {
	Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error)
}

// DocumentPipeline 文档翻译流水线
type DocumentPipeline interface {
	TranslateDocument(ctx context.Context, filePath, sourceLanguage, targetLanguage string) (*translator.DocumentResult, error)
}

// Handler 翻译相关的 HTTP 处理器。不保存任何请求状态
type Handler struct {
	Translator     TextTranslator
	Documents      DocumentPipeline
	Store          *storage.Store
	DownloadPrefix string
	Logger         *slog.Logger
}

// New 创建处理器
func New(t TextTranslator, documents DocumentPipeline, store *storage.Store, downloadPrefix string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Translator:     t,
		Documents:      documents,
		Store:          store,
		DownloadPrefix: "/" + strings.Trim(downloadPrefix, "/"),
		Logger:         logger,
	}
}

// Register 注册 API 路由
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	{
		api.POST("/translate-text", h.TranslateText)
		api.POST("/translate-document", h.TranslateDocument)
	}
	r.GET("/healthz", h.Health)
}

// TranslateText 处理文本翻译请求
func (h *Handler) TranslateText(c *gin.Context) {
	var req models.TranslateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, endpointText, "Invalid JSON body")
		return
	}
	if fields := req.MissingFields(); len(fields) > 0 {
		h.badRequest(c, endpointText, missingMessage(fields))
		return
	}

	translated, err := h.Translator.Translate(c.Request.Context(), req.Text, req.SourceLanguage, req.TargetLanguage)
	if err != nil {
		h.fail(c, endpointText, err)
		return
	}

	middleware.RecordTranslation(endpointText, "ok")
	c.JSON(http.StatusOK, models.TranslateTextResponse{TranslatedText: translated})
}

// TranslateDocument 处理 PDF 翻译请求。上传文件无论成功失败都会被删除
func (h *Handler) TranslateDocument(c *gin.Context) {
	file, fileErr := c.FormFile(documentField)
	sourceLanguage := c.PostForm("sourceLanguage")
	targetLanguage := c.PostForm("targetLanguage")

	var fields []string
	if fileErr != nil {
		fields = append(fields, documentField)
	}
	if sourceLanguage == "" {
		fields = append(fields, "sourceLanguage")
	}
	if targetLanguage == "" {
		fields = append(fields, "targetLanguage")
	}
	if len(fields) > 0 {
		h.badRequest(c, endpointDocument, missingMessage(fields))
		return
	}
	if !isPDF(file) {
		h.badRequest(c, endpointDocument, "Only PDF documents are supported")
		return
	}

	upload := h.Store.NewUpload(file.Filename)
	defer upload.Release()

	if err := c.SaveUploadedFile(file, upload.Path); err != nil {
		h.fail(c, endpointDocument, err)
		return
	}
	h.Logger.Info("收到文档翻译请求",
		"request_id", middleware.GetRequestID(c),
		"file", upload.OriginalName,
		"upload", filepath.Base(upload.Path),
		"size", file.Size,
		"source", sourceLanguage,
		"target", targetLanguage)

	result, err := h.Documents.TranslateDocument(c.Request.Context(), upload.Path, sourceLanguage, targetLanguage)
	if err != nil {
		h.fail(c, endpointDocument, err)
		return
	}

	middleware.RecordTranslation(endpointDocument, "ok")
	c.JSON(http.StatusOK, models.TranslateDocumentResponse{
		TranslatedText: result.TranslatedText,
		DownloadURL:    h.DownloadURL(result.PDFPath),
	})
}

// Health 存活检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

// DownloadURL 生成文件的下载地址 <prefix>/<文件名>
func (h *Handler) DownloadURL(pdfPath string) string {
	return path.Join(h.DownloadPrefix, filepath.Base(pdfPath))
}

func (h *Handler) badRequest(c *gin.Context, endpoint, msg string) {
	middleware.RecordTranslation(endpoint, string(translator.KindValidation))
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg, Kind: string(translator.KindValidation)})
}

// fail 按错误类别返回状态码，底层原因只写日志
func (h *Handler) fail(c *gin.Context, endpoint string, err error) {
	_ = c.Error(err)

	var te *translator.Error
	if !errors.As(err, &te) {
		middleware.RecordTranslation(endpoint, "internal")
		h.Logger.Error("请求处理失败", "request_id", middleware.GetRequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
		return
	}

	middleware.RecordTranslation(endpoint, string(te.Kind))
	h.Logger.Warn("翻译失败",
		"request_id", middleware.GetRequestID(c),
		"kind", te.Kind,
		"error", err)
	c.JSON(te.Kind.StatusCode(), models.ErrorResponse{Error: te.Public(), Kind: string(te.Kind)})
}

func missingMessage(fields []string) string {
	return "Missing required parameters: " + strings.Join(fields, ", ")
}

// isPDF 扩展名为 .pdf 或声明为 application/pdf
func isPDF(file *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return true
	}
	return strings.HasPrefix(file.Header.Get("Content-Type"), "application/pdf")
}
