package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MaxUploadSize caps admin uploads kept in memory.
const MaxUploadSize = 50 << 20

// ReadUploadedFile loads a multipart file fully into memory so the upload can
// be replayed if the API asks for a token refresh.
func ReadUploadedFile(file *multipart.FileHeader) (string, []byte, error) {
	if file.Size > MaxUploadSize {
		return "", nil, fmt.Errorf("file is larger than %d MB", MaxUploadSize>>20)
	}
	src, err := file.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return "", nil, err
	}
	if len(content) > MaxUploadSize {
		return "", nil, fmt.Errorf("file is larger than %d MB", MaxUploadSize>>20)
	}
	return SafeFilename(file.Filename), content, nil
}

// SafeFilename strips any directory part from a client supplied filename.
func SafeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
