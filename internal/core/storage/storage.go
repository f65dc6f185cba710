// Package storage 宠物照片存储：本地目录或 GCS。
package storage

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"furrylink/internal/domain"
	"furrylink/pkg/utils"
)

const DefaultMaxBytes int64 = 16 << 20 // 16MB

var DefaultAllowedExt = []string{"png", "jpg", "jpeg", "gif"}

type Storage interface {
	// Save 保存文件并返回引用名（用于 /uploads/:filename）
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, string, error)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename 只保留安全字符，去掉路径成分；结果可能为空
func SecureFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

func ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Validate 校验上传文件名与大小
func Validate(filename string, size, maxBytes int64, allowed []string) error {
	if strings.TrimSpace(filename) == "" {
		return domain.InvalidArgument("No file selected")
	}
	if maxBytes > 0 && size > maxBytes {
		return domain.InvalidArgument("File too large")
	}
	e := ext(filename)
	if e == "" || SecureFilename(filename) == "" {
		return domain.InvalidArgument("File type not allowed")
	}
	for _, a := range allowed {
		if strings.EqualFold(a, e) {
			return nil
		}
	}
	return domain.InvalidArgument("File type not allowed")
}

// refName 同名文件不互相覆盖
func refName(filename string) string {
	return utils.NewID()[:12] + "_" + SecureFilename(filename)
}

// validRef 拒绝任何带路径成分的引用
func validRef(ref string) bool {
	return ref != "" && SecureFilename(ref) == ref
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
