package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// LibreTranslateProvider 自建 LibreTranslate 服务
type LibreTranslateProvider struct {
	*BaseProvider
}

func (p *LibreTranslateProvider) Name() string {
	return string(ProviderLibreTranslate)
}

func (p *LibreTranslateProvider) Model(sourceLanguage, targetLanguage string) string {
	return ModelID("libretranslate", sourceLanguage, targetLanguage)
}

func (p *LibreTranslateProvider) Translate(ctx context.Context, r Request) (string, error) {
	reqBody := map[string]interface{}{
		"q":      r.Text,
		"source": r.SourceLanguage,
		"target": r.TargetLanguage,
		"format": "text",
	}
	if p.Config.APIKey != "" {
		reqBody["api_key"] = p.Config.APIKey
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Config.APIURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := p.doRequest(req)
	if err != nil {
		return "", err
	}

	var resp struct {
		TranslatedText string `json:"translatedText"`
		Error          string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("libretranslate: %s", resp.Error)
	}
	if resp.TranslatedText == "" {
		return "", fmt.Errorf("libretranslate returned no translation")
	}

	return resp.TranslatedText, nil
}
