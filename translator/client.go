package translator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// SameLanguagePolicy 源语言与目标语言相同时的处理方式
type SameLanguagePolicy string

const (
	// SameLanguageTranslate 照常调用翻译服务
	SameLanguageTranslate SameLanguagePolicy = "translate"
	// SameLanguagePassthrough 原样返回，不调用翻译服务
	SameLanguagePassthrough SameLanguagePolicy = "passthrough"
	// SameLanguageReject 作为参数错误拒绝
	SameLanguageReject SameLanguagePolicy = "reject"
)

const opTranslateText = "failed to translate text"

// Client 翻译客户端，进程启动时创建一次并注入到各处
type Client struct {
	Provider Provider
	Cache    Cache
	Policy   SameLanguagePolicy
	Logger   *slog.Logger
}

// NewClient 创建翻译客户端，cache 可以为 nil
func NewClient(provider Provider, cache Cache, policy SameLanguagePolicy, logger *slog.Logger) *Client {
	if policy == "" {
		policy = SameLanguageTranslate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		Provider: provider,
		Cache:    cache,
		Policy:   policy,
		Logger:   logger,
	}
}

// Translate 翻译文本。外部服务的任何失败都归为 KindTranslation
func (c *Client) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	if text == "" || sourceLanguage == "" || targetLanguage == "" {
		return "", validationError("missing required parameters for translation")
	}

	if strings.EqualFold(sourceLanguage, targetLanguage) {
		switch c.Policy {
		case SameLanguagePassthrough:
			return text, nil
		case SameLanguageReject:
			return "", validationError(fmt.Sprintf("source and target language are both %q", sourceLanguage))
		}
	}

	model := c.Provider.Model(sourceLanguage, targetLanguage)
	key := CacheKey(c.Provider.Name(), model, text)
	if c.Cache != nil {
		if cached, ok := c.Cache.Get(ctx, key); ok {
			c.Logger.Debug("命中翻译缓存", "model", model)
			return cached, nil
		}
	}

	start := time.Now()
	result, err := c.Provider.Translate(ctx, Request{
		Text:           text,
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
	})
	if err != nil {
		c.Logger.Error("翻译服务调用失败", "provider", c.Provider.Name(), "model", model, "error", err)
		return "", &Error{Kind: KindTranslation, Op: opTranslateText, Msg: "translation service error", Cause: err}
	}
	c.Logger.Info("翻译完成", "provider", c.Provider.Name(), "model", model,
		"chars", len(text), "duration", time.Since(start))

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, result); err != nil {
			c.Logger.Warn("写入翻译缓存失败", "error", err)
		}
	}
	return result, nil
}
