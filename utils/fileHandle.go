package utils

import (
	"io"
	"mime/multipart"
	"os"
	"otms/config"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SaveUploadedFile stores a multipart upload under destDir with a unique
// timestamped name and returns the path on disk
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	newFilename := time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8] + ext
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return filePath, nil
}

// GetFileURL maps a path under the upload directory to the URL it is
// served on. The upload dir lives inside the static public folder.
func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	rel, err := filepath.Rel(config.AppConfig.UploadDir, filePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "/uploads/" + filepath.Base(filePath)
	}
	return "/uploads/" + filepath.ToSlash(rel)
}

// ContentTypeByExtension maps export/certificate file extensions to the
// content type served on download
func ContentTypeByExtension(name string) string {
	switch filepath.Ext(name) {
	case ".pdf":
		return "application/pdf"
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
