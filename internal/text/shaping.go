package text

import (
	"strings"
)

// TextShaper measures and breaks text against a font metrics table
type TextShaper struct {
	metrics *FontMetrics
}

// NewTextShaper creates a text shaper for the given metrics.
// A nil table selects the default serif font.
func NewTextShaper(metrics *FontMetrics) *TextShaper {
	if metrics == nil {
		metrics = DefaultFontMetrics()
	}
	return &TextShaper{metrics: metrics}
}

// Metrics returns the table the shaper measures with
func (s *TextShaper) Metrics() *FontMetrics {
	return s.metrics
}

// Measure returns the rendered width of text at size points.
// Runes missing from the table use the default advance.
func (s *TextShaper) Measure(text string, size float64) float64 {
	width := 0.0
	for _, r := range text {
		width += s.metrics.Advance(r, size)
	}
	return width
}

// Tokenize splits paragraph text into words on runs of whitespace
func (s *TextShaper) Tokenize(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	return words
}

// SplitTextToLines greedily packs the words of text into lines no wider than
// maxWidth. A word that is wider than maxWidth on its own gets a line to itself.
func (s *TextShaper) SplitTextToLines(text string, size, maxWidth float64) []string {
	words := s.Tokenize(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	currentLine := words[0]

	for _, word := range words[1:] {
		candidate := currentLine + " " + word
		if s.Measure(candidate, size) > maxWidth {
			lines = append(lines, currentLine)
			currentLine = word
			continue
		}
		currentLine = candidate
	}

	return append(lines, currentLine)
}
