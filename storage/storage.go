// Package storage 管理上传临时文件与生成文件的生命周期
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store 上传目录（请求结束即删除）与输出目录（由 Janitor 定期清理）
type Store struct {
	UploadDir string
	OutputDir string
	Logger    *slog.Logger
}

// New 创建 Store 并确保两个目录存在
func New(uploadDir, outputDir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, dir := range []string{uploadDir, outputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return &Store{UploadDir: uploadDir, OutputDir: outputDir, Logger: logger}, nil
}

// Upload 一个请求独占的上传文件
type Upload struct {
	Path         string
	OriginalName string
	store        *Store
}

// UploadExt 上传文件的扩展名，与客户端文件名无关
const UploadExt = ".pdf"

// NewUpload 分配唯一的上传路径 <UploadDir>/<uuid>.pdf
func (s *Store) NewUpload(originalName string) *Upload {
	return &Upload{
		Path:         filepath.Join(s.UploadDir, uuid.New().String()+UploadExt),
		OriginalName: originalName,
		store:        s,
	}
}

// Release 删除上传文件，文件不存在不算错误。应在 defer 中调用
func (u *Upload) Release() {
	if err := os.Remove(u.Path); err != nil && !os.IsNotExist(err) {
		u.store.Logger.Warn("删除上传文件失败", "path", u.Path, "error", err)
	}
}

// RemoveOlderThan 删除输出目录中早于 now-maxAge 的普通文件，返回删除数量
func (s *Store) RemoveOlderThan(maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(s.OutputDir)
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.OutputDir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.Logger.Warn("删除过期文件失败", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
