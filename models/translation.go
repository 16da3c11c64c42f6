package models

// TranslateTextRequest POST /api/translate-text 请求体
type TranslateTextRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
}

// MissingFields 返回为空的必填字段名
func (r TranslateTextRequest) MissingFields() []string {
	var fields []string
	if r.Text == "" {
		fields = append(fields, "text")
	}
	if r.SourceLanguage == "" {
		fields = append(fields, "sourceLanguage")
	}
	if r.TargetLanguage == "" {
		fields = append(fields, "targetLanguage")
	}
	return fields
}

type TranslateTextResponse struct {
	TranslatedText string `json:"translatedText"`
}

// TranslateDocumentResponse 文档翻译结果，DownloadURL 指向静态下载路由
type TranslateDocumentResponse struct {
	TranslatedText string `json:"translatedText"`
	DownloadURL    string `json:"downloadUrl"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
