package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// 翻译提供商
const (
	ProviderHuggingFace    = "huggingface"
	ProviderLibreTranslate = "libretranslate"
	ProviderOpenAI         = "openai"
	ProviderGoogle         = "google"
)

// 缓存后端
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config 服务配置，全部来自环境变量
type Config struct {
	Host      string `env:"HOST"`
	Port      int    `env:"PORT" envDefault:"3000"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	Provider          string        `env:"TRANSLATOR_PROVIDER" envDefault:"huggingface"`
	HuggingFaceAPIKey string        `env:"HUGGINGFACE_API_KEY"`
	HuggingFaceURL    string        `env:"HF_API_URL" envDefault:"https://router.huggingface.co/hf-inference"`
	ModelPrefix       string        `env:"MODEL_PREFIX" envDefault:"Helsinki-NLP/opus-mt"`
	LibreURL          string        `env:"LIBRETRANSLATE_URL"`
	LibreAPIKey       string        `env:"LIBRETRANSLATE_API_KEY"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	OpenAIModel       string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GoogleAPIKey      string        `env:"GOOGLE_API_KEY"`
	GoogleCredentials string        `env:"GOOGLE_CREDENTIALS_FILE"`
	TranslatorTimeout time.Duration `env:"TRANSLATOR_TIMEOUT" envDefault:"60s"`

	// SameLanguagePolicy 源语言与目标语言相同时的处理方式: translate, passthrough, reject
	SameLanguagePolicy string `env:"SAME_LANGUAGE_POLICY" envDefault:"translate"`

	CacheBackend string        `env:"CACHE_BACKEND" envDefault:"none"`
	CacheDir     string        `env:"CACHE_DIR" envDefault:"data/cache"`
	RedisURL     string        `env:"REDIS_URL"`
	CachePrefix  string        `env:"CACHE_PREFIX" envDefault:"pdftr:"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"24h"`

	OutputDir       string        `env:"OUTPUT_DIR" envDefault:"uploads"`
	UploadTempDir   string        `env:"UPLOAD_TEMP_DIR"`
	DownloadPrefix  string        `env:"DOWNLOAD_PREFIX" envDefault:"/downloads"`
	OutputTTL       time.Duration `env:"OUTPUT_TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
	PDFFontPath     string        `env:"PDF_FONT_PATH"`
	MaxUploadMB     int64         `env:"MAX_UPLOAD_MB" envDefault:"100"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`

	PublicDir string `env:"PUBLIC_DIR"`

	// CORSAllowedOrigins 逗号分隔，"*" 表示任意来源，为空时不处理跨域
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// ServerAddr 返回监听地址 host:port
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RateLimitEnabled 是否启用按 IP 限流
func (c Config) RateLimitEnabled() bool {
	return c.RateLimitRPS > 0
}

// Load 读取 .env（如果存在）并解析环境变量
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		slog.Debug("已加载环境文件", "file", f)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.UploadTempDir == "" {
		cfg.UploadTempDir = filepath.Join(os.TempDir(), "pdf-translator")
	}
	cfg.DownloadPrefix = "/" + strings.Trim(cfg.DownloadPrefix, "/")
	cfg.CORSAllowedOrigins = cleanList(cfg.CORSAllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查枚举取值与提供商凭据
func (c *Config) Validate() error {
	var errs []error

	switch c.Provider {
	case ProviderHuggingFace:
		if c.HuggingFaceAPIKey == "" {
			errs = append(errs, errors.New("HUGGINGFACE_API_KEY is required for the huggingface provider"))
		}
	case ProviderLibreTranslate:
		if c.LibreURL == "" {
			errs = append(errs, errors.New("LIBRETRANSLATE_URL is required for the libretranslate provider"))
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	case ProviderGoogle:
		// 未配置时使用 Application Default Credentials
	default:
		errs = append(errs, fmt.Errorf("unknown TRANSLATOR_PROVIDER %q", c.Provider))
	}

	switch c.SameLanguagePolicy {
	case "translate", "passthrough", "reject":
	default:
		errs = append(errs, fmt.Errorf("unknown SAME_LANGUAGE_POLICY %q", c.SameLanguagePolicy))
	}

	switch c.CacheBackend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when CACHE_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}
	for _, origin := range c.CORSAllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, fmt.Errorf("invalid CORS origin %q: must be \"*\" or start with http:// or https://", origin))
		}
	}
	if c.DownloadPrefix == "/" {
		errs = append(errs, errors.New("DOWNLOAD_PREFIX must not be the root path"))
	}

	return errors.Join(errs...)
}

// CORSEnabled 是否处理跨域请求
func (c Config) CORSEnabled() bool {
	return len(c.CORSAllowedOrigins) > 0
}

// cleanList 去掉空白项
func cleanList(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SlogLevel 把 LOG_LEVEL 映射为 slog.Level
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
