package translator

import (
	"context"
	"fmt"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleProvider Google Cloud Translation (v2)
type GoogleProvider struct {
	client *translate.Client
}

// NewGoogleProvider 创建 Google 提供商，没有显式凭据时使用 ADC
func NewGoogleProvider(ctx context.Context, config ProviderConfig) (*GoogleProvider, error) {
	var opts []option.ClientOption
	if config.APIKey != "" {
		opts = append(opts, option.WithAPIKey(config.APIKey))
	}
	if config.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(config.Credentials))
	}
	if config.APIURL != "" {
		opts = append(opts, option.WithEndpoint(config.APIURL))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating google translate client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

func (p *GoogleProvider) Name() string {
	return string(ProviderGoogle)
}

func (p *GoogleProvider) Model(sourceLanguage, targetLanguage string) string {
	return ModelID("google-nmt", sourceLanguage, targetLanguage)
}

func (p *GoogleProvider) Translate(ctx context.Context, r Request) (string, error) {
	target, err := language.Parse(r.TargetLanguage)
	if err != nil {
		return "", fmt.Errorf("invalid target language %q: %w", r.TargetLanguage, err)
	}
	source, err := language.Parse(r.SourceLanguage)
	if err != nil {
		return "", fmt.Errorf("invalid source language %q: %w", r.SourceLanguage, err)
	}

	translations, err := p.client.Translate(ctx, []string{r.Text}, target, &translate.Options{
		Source: source,
		Format: translate.Text,
	})
	if err != nil {
		return "", err
	}
	if len(translations) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return translations[0].Text, nil
}

// Close 释放 gRPC/HTTP 连接
func (p *GoogleProvider) Close() error {
	return p.client.Close()
}
