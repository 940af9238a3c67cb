package infra

// storage.go — product image persistence on the local filesystem. Files are
// validated (size, extension, sniffed MIME type), stored under the upload
// directory with collision-resistant names, and referenced by a relative
// /uploads/... path that the router serves statically.

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxImageSize = 5 << 20 // 5 MB

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// LocalImageStore writes product images under baseDir and hands back
// "/uploads/<name>" paths.
type LocalImageStore struct {
	baseDir string
}

func NewLocalImageStore(baseDir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &LocalImageStore{baseDir: baseDir}, nil
}

// Save validates and persists an uploaded image, returning its public
// relative path.
func (s *LocalImageStore) Save(file *multipart.FileHeader) (string, error) {
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image exceeds the 5MB size limit")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("unsupported image type %s: use jpg, jpeg, png or gif", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer src.Close()

	// Sniff the real content type; the extension alone is attacker-controlled.
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("storage: read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("file content is not an image")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("storage: rewind upload: %w", err)
	}

	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), randomSuffix(), ext)
	dstPath := filepath.Join(s.baseDir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return "/uploads/" + name, nil
}

// Delete removes a previously saved image. Paths outside the upload dir are
// refused. Returns false when nothing was removed.
func (s *LocalImageStore) Delete(relPath string) bool {
	name := filepath.Base(strings.TrimPrefix(relPath, "/uploads/"))
	if name == "" || name == "." || name == ".." {
		return false
	}
	return os.Remove(filepath.Join(s.baseDir, name)) == nil
}

func randomSuffix() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}
