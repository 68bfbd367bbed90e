// Package filehandler loads and stores the rasters and documents the CLI works
// with. Nothing in the codec or analysis packages touches the filesystem.
package filehandler

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

const maxFileSize = 100 * 1024 * 1024

// SupportedImageFormats maps file extensions to decoder names
var SupportedImageFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
}

// IsImageFile checks if a file is an image based on extension
func IsImageFile(path string) bool {
	_, ok := SupportedImageFormats[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsURL checks if the given string is a URL
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// DetectFileFormat detects the format of a file, first by extension and then by content
func DetectFileFormat(filePath string) (string, error) {
	if format, ok := SupportedImageFormats[strings.ToLower(filepath.Ext(filePath))]; ok {
		return format, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return sniffFormat(buffer[:n])
}

func sniffFormat(head []byte) (string, error) {
	if bytes.HasPrefix(head, []byte("II*\x00")) || bytes.HasPrefix(head, []byte("MM\x00*")) {
		return "tiff", nil
	}
	contentType := http.DetectContentType(head)
	switch {
	case strings.Contains(contentType, "image/png"):
		return "png", nil
	case strings.Contains(contentType, "image/jpeg"):
		return "jpeg", nil
	case strings.Contains(contentType, "image/gif"):
		return "gif", nil
	case strings.Contains(contentType, "image/bmp"):
		return "bmp", nil
	default:
		return "", fmt.Errorf("unsupported file format: %s", contentType)
	}
}

// LoadImage decodes an image from a local path or an http(s) URL
func LoadImage(pathOrURL string) (image.Image, string, error) {
	data, err := readSource(pathOrURL)
	if err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image %s: %w", pathOrURL, err)
	}
	return img, format, nil
}

func readSource(pathOrURL string) ([]byte, error) {
	if IsURL(pathOrURL) {
		return download(pathOrURL)
	}
	return ReadFileBytes(pathOrURL)
}

// ReadFileBytes reads a file and returns its content as a byte array
func ReadFileBytes(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("file too large (max 100MB)")
	}

	content := make([]byte, info.Size())
	if _, err := io.ReadFull(file, content); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

func download(url string) ([]byte, error) {
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	if resp.ContentLength > maxFileSize {
		return nil, fmt.Errorf("file too large (max 100MB)")
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read download: %w", err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("file too large (max 100MB)")
	}
	return data, nil
}

// SavePNG writes img as a lossless PNG, creating parent directories.
// Embedded rasters must never go through a lossy encoder.
func SavePNG(img image.Image, filePath string) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return SaveFile(buf.Bytes(), filePath)
}

// SaveFile saves data to a file
func SaveFile(data []byte, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

// GatherImages collects the image files of a directory (non-recursive), sorted by name
func GatherImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dirPath, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
