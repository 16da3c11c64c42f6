package translator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Cache 翻译结果缓存
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// FileCache 以文件形式保存的缓存，每个键一个文件
type FileCache struct {
	dir   string
	mutex sync.RWMutex
}

// NewFileCache 创建文件缓存
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get 获取缓存
func (c *FileCache) Get(_ context.Context, key string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set 设置缓存
func (c *FileCache) Set(_ context.Context, key, value string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return os.WriteFile(c.path(key), []byte(value), 0644)
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, hashKey(key)+".txt")
}

// hashKey 计算缓存键的哈希
func hashKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// CacheKey 由提供商、模型和原文生成缓存键
func CacheKey(provider, model, text string) string {
	data := map[string]string{
		"provider": provider,
		"model":    model,
		"text":     text,
	}
	jsonData, _ := json.Marshal(data)
	return string(jsonData)
}
