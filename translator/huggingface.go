package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HuggingFaceProvider Hugging Face 推理接口上的 opus-mt 翻译模型
type HuggingFaceProvider struct {
	*BaseProvider
}

func (p *HuggingFaceProvider) Name() string {
	return string(ProviderHuggingFace)
}

func (p *HuggingFaceProvider) Model(sourceLanguage, targetLanguage string) string {
	return ModelID(p.Config.Model, sourceLanguage, targetLanguage)
}

func (p *HuggingFaceProvider) Translate(ctx context.Context, r Request) (string, error) {
	model := p.Model(r.SourceLanguage, r.TargetLanguage)

	jsonData, err := json.Marshal(map[string]string{"inputs": r.Text})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(p.Config.APIURL, "/") + "/models/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.Config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.Config.APIKey)
	}

	body, err := p.doRequest(req)
	if err != nil {
		return "", err
	}

	var resp []struct {
		TranslationText string `json:"translation_text"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding response of %s: %w", model, err)
	}
	if len(resp) == 0 {
		return "", fmt.Errorf("model %s returned no translation", model)
	}

	return resp[0].TranslationText, nil
}
