// Package extract turns uploaded documents into plain text for prompts.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"emotionix.ai/emotionix/internal/utils"
)

// MaxChars is the prompt budget for extracted text.
const MaxChars = 4000

const pageSeparator = "\n\n"

var ErrNoContent = errors.New("no text or pdf provided")

// IsPDF reports whether an upload is a PDF, judged by name, content type or
// magic bytes.
func IsPDF(filename, contentType string, head []byte) bool {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return true
	}
	if strings.HasPrefix(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	return bytes.HasPrefix(head, []byte("%PDF-"))
}

// Extract reads an uploaded file and returns at most MaxChars characters of
// its text. PDFs are extracted page by page; anything else is decoded as
// UTF-8 with invalid sequences dropped.
func Extract(filename, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	var text string
	if IsPDF(filename, contentType, data) {
		text, err = PDFText(data)
		if err != nil {
			return "", err
		}
	} else {
		text = utils.LenientUTF8(data)
	}
	return Finalize(text)
}

// Finalize applies the prompt budget and rejects blank text.
func Finalize(text string) (string, error) {
	text = utils.Truncate(text, MaxChars)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}
	return text, nil
}

// pageSource is the slice of a PDF reader that text extraction needs.
type pageSource interface {
	NumPage() int
	PageText(i int) (string, error)
}

// PDFText returns the text of every page joined by blank lines.
func PDFText(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("open pdf: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	return joinPages(pdfPages{r}), nil
}

// joinPages keeps a slot for every page, empty when a page yields no text.
func joinPages(src pageSource) string {
	n := src.NumPage()
	pages := make([]string, n)
	for i := 1; i <= n; i++ {
		text, err := src.PageText(i)
		if err != nil {
			continue
		}
		pages[i-1] = text
	}
	return strings.Join(pages, pageSeparator)
}

type pdfPages struct {
	r *pdf.Reader
}

func (p pdfPages) NumPage() int {
	return p.r.NumPage()
}

// PageText extracts one page (1-based). The parser panics on some malformed
// input; such pages count as empty.
func (p pdfPages) PageText(i int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("page %d: %v", i, rec)
		}
	}()

	page := p.r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
