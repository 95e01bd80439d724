// Package extract pulls plain text out of uploaded study files on a
// best-effort basis. It never fails: anything unreadable (scanned images,
// unsupported formats, corrupt files) comes back as an empty string, which
// downstream code treats as "document has no text".
package extract

import (
	"bytes"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extensions decoded as UTF-8 text, mirroring the study-file formats the
// upload endpoint accepts.
var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".py": true, ".java": true, ".js": true,
	".ts": true, ".tsx": true, ".c": true, ".cpp": true, ".cs": true,
	".go": true, ".html": true, ".css": true, ".json": true, ".xml": true,
	".sql": true,
}

// TextFromBytes extracts text from raw file bytes using the filename and
// declared content type as hints. PDFs use the machine text layer; text and
// code files are decoded as UTF-8; images yield "" (no OCR support).
func TextFromBytes(raw []byte, filename, contentType string) string {
	if len(raw) == 0 {
		return ""
	}

	mimeType := guessMime(filename, contentType)
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case strings.Contains(mimeType, "pdf") || ext == ".pdf":
		return pdfText(raw)
	case strings.HasPrefix(mimeType, "image/"):
		return ""
	case textExtensions[ext] || strings.HasPrefix(mimeType, "text/"):
		return decodeUTF8(raw)
	default:
		// Unknown format: a UTF-8 decode still salvages plain-text files
		// uploaded with a generic content type.
		return decodeUTF8(raw)
	}
}

func guessMime(filename, contentType string) string {
	if contentType != "" {
		return strings.ToLower(contentType)
	}
	if filename != "" {
		if guessed := mime.TypeByExtension(filepath.Ext(filename)); guessed != "" {
			return strings.ToLower(guessed)
		}
	}
	return "application/octet-stream"
}

// pdfText reads the PDF's machine text layer. The pdf reader panics on some
// malformed files, so the recover keeps the never-fails contract.
func pdfText(raw []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return ""
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return ""
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return ""
	}
	return string(out)
}

func decodeUTF8(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "")
}
