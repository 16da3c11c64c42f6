package translator

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIProvider OpenAI 兼容的聊天模型（也可指向其他兼容服务）
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider 创建 OpenAI 提供商
func NewOpenAIProvider(config ProviderConfig) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}
	if config.APIURL != "" {
		opts = append(opts, option.WithBaseURL(config.APIURL))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}
	// 不重试
	opts = append(opts, option.WithMaxRetries(0))

	model := config.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string {
	return string(ProviderOpenAI)
}

func (p *OpenAIProvider) Model(sourceLanguage, targetLanguage string) string {
	return ModelID(p.model, sourceLanguage, targetLanguage)
}

func (p *OpenAIProvider) Translate(ctx context.Context, r Request) (string, error) {
	systemPrompt := fmt.Sprintf("You are a professional translator. Translate the following text from %s to %s. Keep the original meaning and style. Only return the translated text without any explanations.", r.SourceLanguage, r.TargetLanguage)

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(r.Text),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model %s returned no choices", p.model)
	}

	return resp.Choices[0].Message.Content, nil
}
