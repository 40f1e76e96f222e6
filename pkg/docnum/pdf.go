package docnum

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PDF readers accept the header anywhere in the first KiB.
const pdfHeaderWindow = 1024

var pdfHeader = []byte("%PDF-")

func isPDF(data []byte) bool {
	head := data
	if len(head) > pdfHeaderWindow {
		head = head[:pdfHeaderWindow]
	}
	return bytes.Contains(head, pdfHeader)
}

// documentText returns the text to scan for numbers. PDF files are reduced
// to their page text; their structure (xref offsets, stream lengths) must
// never be matched.
func documentText(data []byte) (string, error) {
	if !isPDF(data) {
		return string(data), nil
	}
	return pdfText(data)
}

func pdfText(data []byte) (text string, err error) {
	// the reader panics on some malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: unreadable pdf: %v", ErrNotFound, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return string(b), nil
}
