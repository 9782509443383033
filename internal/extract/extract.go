// Package extract pulls plain text out of the document formats the upload
// endpoint accepts: txt, docx and pdf.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat is returned for file extensions the service does not accept.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrEmptyDocument is returned when a document yields no usable text.
var ErrEmptyDocument = errors.New("document contains no text")

// SupportedFormats lists the accepted file extensions, without the dot.
var SupportedFormats = []string{"pdf", "docx", "txt"}

// Text extracts plain text from the document, dispatching on the file extension.
func Text(filename string, data []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	var text string
	var err error

	switch ext {
	case "txt":
		text, err = plainText(data)
	case "docx":
		text, err = docxText(data)
	case "pdf":
		text, err = pdfText(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDocument
	}

	return text, nil
}

func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text file is not valid UTF-8")
	}
	return string(data), nil
}
