package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"pdf-translator/config"
	"pdf-translator/translator"
)

// app 进程级依赖，启动时创建一次
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	client    *translator.Client
	extractor *translator.PDFExtractor
	generator *translator.PDFGenerator
	closers   []io.Closer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger}

	provider, err := translator.NewProvider(ctx, providerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("creating %s provider: %w", cfg.Provider, err)
	}
	if c, ok := provider.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	cache, err := a.newCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.client = translator.NewClient(provider, cache, translator.SameLanguagePolicy(cfg.SameLanguagePolicy), logger)
	a.extractor = translator.NewPDFExtractor(logger)
	a.generator = translator.NewPDFGenerator(cfg.PDFFontPath, logger)

	logger.Info("翻译服务已配置",
		"provider", provider.Name(),
		"cache", cfg.CacheBackend,
		"same_language_policy", cfg.SameLanguagePolicy)
	return a, nil
}

// documents 创建输出到 outputDir 的文档翻译流水线
func (a *app) documents(outputDir string) *translator.DocumentTranslator {
	return translator.NewDocumentTranslator(a.client, a.extractor, a.generator, outputDir, a.logger)
}

func (a *app) newCache(ctx context.Context) (translator.Cache, error) {
	switch a.cfg.CacheBackend {
	case config.CacheFile:
		c, err := translator.NewFileCache(a.cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("creating file cache: %w", err)
		}
		return c, nil
	case config.CacheRedis:
		c, err := translator.NewRedisCache(ctx, a.cfg.RedisURL, a.cfg.CachePrefix, a.cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("creating redis cache: %w", err)
		}
		a.closers = append(a.closers, c)
		return c, nil
	default:
		return nil, nil
	}
}

// Close 关闭提供商与缓存连接
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("关闭资源失败", "error", err)
		}
	}
	a.closers = nil
}

func providerConfig(cfg *config.Config) translator.ProviderConfig {
	pc := translator.ProviderConfig{
		Type:    translator.ProviderType(cfg.Provider),
		Timeout: cfg.TranslatorTimeout,
	}
	switch cfg.Provider {
	case config.ProviderHuggingFace:
		pc.APIKey = cfg.HuggingFaceAPIKey
		pc.APIURL = cfg.HuggingFaceURL
		pc.Model = cfg.ModelPrefix
	case config.ProviderLibreTranslate:
		pc.APIKey = cfg.LibreAPIKey
		pc.APIURL = cfg.LibreURL
	case config.ProviderOpenAI:
		pc.APIKey = cfg.OpenAIAPIKey
		pc.APIURL = cfg.OpenAIBaseURL
		pc.Model = cfg.OpenAIModel
	case config.ProviderGoogle:
		pc.APIKey = cfg.GoogleAPIKey
		pc.Credentials = cfg.GoogleCredentials
	}
	return pc
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
