package pagination

import (
	"github.com/gompdf/docexport/internal/text"
	"github.com/gompdf/docexport/pkg/model"
)

// LaidOutLine is one positioned line of text.
// Y is the baseline measured from the top edge of the page.
type LaidOutLine struct {
	Text     string
	X        float64
	Y        float64
	Width    float64
	FontSize float64
	Page     int
}

// Page represents a single page in the document
type Page struct {
	Index  int
	Width  float64
	Height float64
	// Title is only set on the first page
	Title *LaidOutLine
	Lines []LaidOutLine
}

// Paginator packs document text into lines and lines into pages
type Paginator struct {
	Geometry PageGeometry
	shaper   *text.TextShaper
}

// NewPaginator creates a new paginator
func NewPaginator(geometry PageGeometry, shaper *text.TextShaper) *Paginator {
	if shaper == nil {
		shaper = text.NewTextShaper(nil)
	}
	return &Paginator{
		Geometry: geometry,
		shaper:   shaper,
	}
}

// Paginate lays out doc in a single greedy pass. It always returns at least one page.
func (p *Paginator) Paginate(doc model.StyledDocument) []*Page {
	g := p.Geometry
	maxWidth := g.ContentWidth()

	var pages []*Page
	var page *Page
	// y is the PDF-space cursor, measured from the bottom edge
	var y float64

	newPage := func() {
		page = &Page{
			Index:  len(pages),
			Width:  g.Width,
			Height: g.Height,
			Lines:  []LaidOutLine{},
		}
		pages = append(pages, page)
		y = g.Height - g.Margin
	}

	newPage()
	y -= g.TitleReservedHeight
	page.Title = p.placeTitle(doc.Title)

	for _, block := range doc.Blocks {
		lines := p.shaper.SplitTextToLines(block.Text(), g.BodyFontSize, maxWidth)
		if len(lines) == 0 {
			// blank paragraph: keep the spacing, let the next line break the page
			y -= g.LineHeight
			continue
		}
		for _, line := range lines {
			if y-g.LineHeight < g.Margin {
				newPage()
			}
			baseline := y - g.LineHeight
			page.Lines = append(page.Lines, LaidOutLine{
				Text:     line,
				X:        g.Margin,
				Y:        g.Height - baseline,
				Width:    p.shaper.Measure(line, g.BodyFontSize),
				FontSize: g.BodyFontSize,
				Page:     page.Index,
			})
			y = baseline
		}
	}

	return pages
}

// placeTitle positions the document title in the header region of the first page.
// The baseline sits one body line below the top margin, whatever the title size.
func (p *Paginator) placeTitle(title string) *LaidOutLine {
	if len(p.shaper.Tokenize(title)) == 0 {
		return nil
	}
	g := p.Geometry
	return &LaidOutLine{
		Text:     title,
		X:        g.Margin,
		Y:        g.Margin + g.BodyFontSize,
		Width:    p.shaper.Measure(title, g.TitleFontSize),
		FontSize: g.TitleFontSize,
		Page:     0,
	}
}

// CalculatePageCount calculates the number of pages needed
func (p *Paginator) CalculatePageCount(doc model.StyledDocument) int {
	return len(p.Paginate(doc))
}
