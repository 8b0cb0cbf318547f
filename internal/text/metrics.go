package text

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// DefaultAdvance is the width, in 1/1000 em, used for runes missing from a font table.
const DefaultAdvance = 500

// DefaultFamily is the serif core font used for reports.
const DefaultFamily = "Times"

// FontMetrics maps runes to advance widths for one core PDF font.
// Widths are stored in glyph space units (1/1000 em). A FontMetrics value
// is never modified after construction.
type FontMetrics struct {
	Family         string
	DefaultAdvance float64
	widths         map[rune]float64
}

var (
	metricsMu    sync.Mutex
	metricsCache = make(map[string]*FontMetrics)
)

// DefaultFontMetrics returns the metrics of the default serif font.
func DefaultFontMetrics() *FontMetrics {
	m, err := MetricsFor(DefaultFamily)
	if err != nil {
		// the core fonts are compiled into fpdf
		panic(fmt.Sprintf("text: loading %s metrics: %v", DefaultFamily, err))
	}
	return m
}

// MetricsFor returns the process-wide metrics table for family, building it on first use.
func MetricsFor(family string) (*FontMetrics, error) {
	name, err := canonicalFamily(family)
	if err != nil {
		return nil, err
	}

	metricsMu.Lock()
	defer metricsMu.Unlock()
	if m, ok := metricsCache[name]; ok {
		return m, nil
	}
	m, err := LoadFontMetrics(name)
	if err != nil {
		return nil, err
	}
	metricsCache[name] = m
	return m, nil
}

// LoadFontMetrics builds a fresh metrics table for a core font family.
// Widths come from fpdf's embedded core font definitions; the repertoire is
// the WinAnsi (cp1252) character set those fonts are encoded with.
func LoadFontMetrics(family string) (*FontMetrics, error) {
	name, err := canonicalFamily(family)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	// at 1000pt with point units GetStringWidth returns glyph space units
	pdf.SetFont(name, "", 1000)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to select font %s: %w", name, err)
	}

	m := &FontMetrics{
		Family:         name,
		DefaultAdvance: DefaultAdvance,
		widths:         make(map[rune]float64, 224),
	}
	for b := 0x20; b <= 0xFF; b++ {
		r := charmap.Windows1252.DecodeByte(byte(b))
		if r == utf8.RuneError || unicode.IsControl(r) {
			continue
		}
		m.widths[r] = pdf.GetStringWidth(string([]byte{byte(b)}))
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to measure %s glyphs: %w", name, err)
	}
	return m, nil
}

// Advance returns the width of r at size points.
func (m *FontMetrics) Advance(r rune, size float64) float64 {
	w, ok := m.widths[r]
	if !ok {
		w = m.DefaultAdvance
	}
	return w * size / 1000
}

// Has reports whether r has an entry in the table.
func (m *FontMetrics) Has(r rune) bool {
	_, ok := m.widths[r]
	return ok
}

// Len returns the number of runes in the table.
func (m *FontMetrics) Len() int {
	return len(m.widths)
}

func canonicalFamily(family string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "", "times", "times-roman", "times new roman", "serif":
		return "Times", nil
	case "helvetica", "arial", "sans-serif":
		return "Helvetica", nil
	case "courier", "courier new", "monospace":
		return "Courier", nil
	default:
		return "", fmt.Errorf("unsupported font family %q", family)
	}
}

// ToWinAnsi converts UTF-8 text to the single-byte encoding of the core fonts.
// Runes outside the character set become '?'.
func ToWinAnsi(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			sb.WriteByte(byte(r))
			continue
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		sb.WriteByte(b)
	}
	return sb.String()
}
