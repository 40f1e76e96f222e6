// Package docnum extracts document numbers, such as invoice numbers, from
// attachment content. Extraction is best effort: callers fall back to an
// operator-supplied value when it fails.
package docnum

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrNotFound is returned when no document number could be determined.
var ErrNotFound = errors.New("docnum: document number not found")

// Extractor derives a document number from attachment bytes.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, data []byte) (string, error)

func (f ExtractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

var (
	labelledPatterns = []*regexp.Regexp{
		regexp.MustCompile(`发票号码[:：]?\s*([0-9]{8,20})`),
		regexp.MustCompile(`(?i)Invoice\s*No\.?\s*[:：]?\s*([0-9]{8,20})`),
	}
	digitRun = regexp.MustCompile(`\b[0-9]{8,20}\b`)
)

// PatternExtractor scans the textual content of a document. PDF input is
// reduced to its page text first. Labelled numbers win; otherwise the longest standalone 8-20 digit run is used,
// earliest first on ties.
type PatternExtractor struct{}

// Extract implements Extractor.
func (PatternExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := documentText(data)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, " ")
	}

	for _, re := range labelledPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], nil
		}
	}

	best := ""
	for _, run := range digitRun.FindAllString(text, -1) {
		if len(run) > len(best) {
			best = run
		}
	}
	if best == "" {
		return "", ErrNotFound
	}
	return best, nil
}

// Resolve returns override when set, otherwise the extractor's result. Any
// extraction failure is reported as ErrNotFound.
func Resolve(ctx context.Context, override string, ex Extractor, data []byte) (string, error) {
	if v := strings.TrimSpace(override); v != "" {
		return v, nil
	}
	if ex == nil {
		return "", ErrNotFound
	}
	v, err := ex.Extract(ctx, data)
	if err != nil || strings.TrimSpace(v) == "" {
		if err != nil && !errors.Is(err, ErrNotFound) {
			return "", errors.Join(ErrNotFound, err)
		}
		return "", ErrNotFound
	}
	return strings.TrimSpace(v), nil
}
