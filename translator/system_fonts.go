package translator

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// SystemFontDetector 系统字体检测器
type SystemFontDetector struct {
	// Dirs 搜索目录，为空时使用当前操作系统的默认字体目录
	Dirs []string

	mu    sync.Mutex
	found map[string]string
}

// NewSystemFontDetector 创建系统字体检测器
func NewSystemFontDetector() *SystemFontDetector {
	return &SystemFontDetector{}
}

// 通用的 Unicode 字体，覆盖拉丁、西里尔、希腊字母
var generalFonts = []string{
	"DejaVuSans.ttf",
	"LiberationSans-Regular.ttf",
	"NotoSans-Regular.ttf",
	"FreeSans.ttf",
	"Arial Unicode.ttf",
	"arial.ttf",
	"Arial.ttf",
	"tahoma.ttf",
}

// 需要专门字形的语言
var languageFonts = map[string][]string{
	"zh": {"NotoSansSC-Regular.ttf", "wqy-microhei.ttf", "simhei.ttf", "DroidSansFallbackFull.ttf"},
	"ja": {"NotoSansJP-Regular.ttf", "ipag.ttf", "ipagp.ttf", "DroidSansFallbackFull.ttf"},
	"ko": {"NotoSansKR-Regular.ttf", "NanumGothic.ttf", "malgun.ttf"},
	"ar": {"NotoNaskhArabic-Regular.ttf", "NotoSansArabic-Regular.ttf", "tahoma.ttf"},
	"he": {"NotoSansHebrew-Regular.ttf", "DejaVuSans.ttf", "arial.ttf"},
	"hi": {"NotoSansDevanagari-Regular.ttf", "Lohit-Devanagari.ttf", "mangal.ttf"},
	"th": {"NotoSansThai-Regular.ttf", "Loma.ttf", "tahoma.ttf"},
}

// GetSystemFontPath 根据语言获取系统字体路径，找不到返回空串
func (sfd *SystemFontDetector) GetSystemFontPath(language string) string {
	lang := baseLanguage(language)

	sfd.mu.Lock()
	defer sfd.mu.Unlock()
	if path, ok := sfd.found[lang]; ok {
		return path
	}

	candidates := append([]string{}, languageFonts[lang]...)
	candidates = append(candidates, generalFonts...)

	var path string
search:
	for _, dir := range sfd.fontDirs() {
		for _, name := range candidates {
			if path = findFont(dir, name); path != "" {
				break search
			}
		}
	}

	if sfd.found == nil {
		sfd.found = make(map[string]string)
	}
	sfd.found[lang] = path
	return path
}

func (sfd *SystemFontDetector) fontDirs() []string {
	if len(sfd.Dirs) > 0 {
		return sfd.Dirs
	}

	switch runtime.GOOS {
	case "windows":
		return []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
	case "darwin":
		home, _ := os.UserHomeDir()
		return []string{"/Library/Fonts", "/System/Library/Fonts", "/System/Library/Fonts/Supplemental", filepath.Join(home, "Library", "Fonts")}
	default:
		home, _ := os.UserHomeDir()
		return []string{"/usr/share/fonts", "/usr/local/share/fonts", filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts")}
	}
}

// findFont 在目录（含子目录）中查找 TrueType 字体文件
func findFont(dir, name string) string {
	if !isTrueType(name) {
		return ""
	}

	direct := filepath.Join(dir, name)
	if fileExists(direct) {
		return direct
	}

	var found string
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || found != "" {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.EqualFold(d.Name(), name) {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// baseLanguage "zh-CN" -> "zh"
func baseLanguage(language string) string {
	language = strings.ToLower(language)
	if i := strings.IndexAny(language, "-_"); i > 0 {
		language = language[:i]
	}
	return language
}
