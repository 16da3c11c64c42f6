package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ProviderType 翻译服务类型
type ProviderType string

const (
	ProviderHuggingFace    ProviderType = "huggingface"
	ProviderLibreTranslate ProviderType = "libretranslate"
	ProviderOpenAI         ProviderType = "openai"
	ProviderGoogle         ProviderType = "google"
)

// DefaultModelPrefix Helsinki-NLP 的 opus-mt 系列模型
const DefaultModelPrefix = "Helsinki-NLP/opus-mt"

// Request 一次翻译调用
type Request struct {
	Text           string
	SourceLanguage string
	TargetLanguage string
}

// Provider 外部翻译服务
type Provider interface {
	Translate(ctx context.Context, req Request) (string, error)
	// Model 返回该语言对使用的模型标识
	Model(sourceLanguage, targetLanguage string) string
	Name() string
}

// ProviderConfig 提供商配置
type ProviderConfig struct {
	Type        ProviderType
	APIKey      string
	APIURL      string
	Model       string // huggingface: 模型前缀; openai: 模型名
	Credentials string // google: 凭据文件
	Timeout     time.Duration
}

// BaseProvider HTTP 提供商的公共部分
type BaseProvider struct {
	Config     ProviderConfig
	HTTPClient *http.Client
}

// NewProvider 创建提供商实例
func NewProvider(ctx context.Context, config ProviderConfig) (Provider, error) {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	base := &BaseProvider{
		Config: config,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}

	switch config.Type {
	case ProviderHuggingFace, "":
		if base.Config.Model == "" {
			base.Config.Model = DefaultModelPrefix
		}
		return &HuggingFaceProvider{BaseProvider: base}, nil
	case ProviderLibreTranslate:
		return &LibreTranslateProvider{BaseProvider: base}, nil
	case ProviderOpenAI:
		return NewOpenAIProvider(config), nil
	case ProviderGoogle:
		return NewGoogleProvider(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// ModelID 由语言对构造模型标识 <prefix>-<src>-<tgt>
func ModelID(prefix, sourceLanguage, targetLanguage string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, sourceLanguage, targetLanguage)
}

// doRequest 执行 HTTP 请求，非 200 时尽量取出服务返回的错误信息
func (b *BaseProvider) doRequest(req *http.Request) ([]byte, error) {
	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, errorMessage(body))
	}

	return body, nil
}

// errorMessage 解析 {"error": "..."} 或 {"error": {"message": "..."}}
func errorMessage(body []byte) string {
	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		return flat.Error
	}
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	return strings.TrimSpace(string(body))
}
