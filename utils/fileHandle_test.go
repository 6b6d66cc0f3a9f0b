package utils

import (
	"bytes"
	"mime/multipart"
	"os"
	"otms/config"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestSaveUploadedFile(t *testing.T) {
	destDir := filepath.Join(t.TempDir(), "materials")
	header := makeFileHeader(t, "notes.pdf", "hello")

	path, err := SaveUploadedFile(header, destDir)
	require.NoError(t, err)
	assert.Equal(t, ".pdf", filepath.Ext(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	// a second upload of the same name does not collide
	other, err := SaveUploadedFile(makeFileHeader(t, "notes.pdf", "again"), destDir)
	require.NoError(t, err)
	assert.NotEqual(t, path, other)
}

func TestGetFileURL(t *testing.T) {
	config.AppConfig = &config.Config{UploadDir: filepath.Join("/srv", "public", "uploads")}

	assert.Equal(t, "", GetFileURL(""))
	assert.Equal(t, "/uploads/materials/notes.pdf",
		GetFileURL(filepath.Join("/srv", "public", "uploads", "materials", "notes.pdf")))
	assert.Equal(t, "/uploads/cert.pdf",
		GetFileURL(filepath.Join("/srv", "public", "uploads", "cert.pdf")))
	// paths outside the upload tree fall back to the base name
	assert.Equal(t, "/uploads/stray.pdf", GetFileURL(filepath.Join("/tmp", "stray.pdf")))
}
