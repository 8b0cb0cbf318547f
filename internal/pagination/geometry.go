package pagination

import (
	"errors"
	"fmt"
)

// PageSize represents standard page sizes
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

// Standard page sizes in points (1/72 inch)
var (
	PageSizeA4     = PageSize{Width: 595.28, Height: 841.89, Name: "A4"}
	PageSizeLetter = PageSize{Width: 612.00, Height: 792.00, Name: "Letter"}
	PageSizeLegal  = PageSize{Width: 612.00, Height: 1008.00, Name: "Legal"}
	PageSizeA3     = PageSize{Width: 841.89, Height: 1190.55, Name: "A3"}
	PageSizeA5     = PageSize{Width: 419.53, Height: 595.28, Name: "A5"}
)

// PageGeometry holds the fixed layout constants of a report page, in points.
type PageGeometry struct {
	Width  float64
	Height float64
	// Margin applies to all four edges
	Margin     float64
	LineHeight float64

	TitleFontSize float64
	BodyFontSize  float64
	// TitleReservedHeight is the header band kept free for the title on the first page
	TitleReservedHeight float64
}

var errNoContentArea = errors.New("page geometry leaves no content area")

// DefaultGeometry returns the A4 report geometry
func DefaultGeometry() PageGeometry {
	return PageGeometry{
		Width:               PageSizeA4.Width,
		Height:              PageSizeA4.Height,
		Margin:              50,
		LineHeight:          15,
		TitleFontSize:       18,
		BodyFontSize:        12,
		TitleReservedHeight: 60,
	}
}

// ContentWidth is the horizontal space available to a line
func (g PageGeometry) ContentWidth() float64 {
	return g.Width - 2*g.Margin
}

// Validate rejects geometries the paginator cannot place a single line in
func (g PageGeometry) Validate() error {
	switch {
	case g.Width <= 0 || g.Height <= 0:
		return fmt.Errorf("invalid page size %.2fx%.2f", g.Width, g.Height)
	case g.Margin < 0:
		return fmt.Errorf("invalid margin %.2f", g.Margin)
	case g.LineHeight <= 0:
		return fmt.Errorf("invalid line height %.2f", g.LineHeight)
	case g.TitleFontSize <= 0 || g.BodyFontSize <= 0:
		return fmt.Errorf("invalid font sizes %.2f/%.2f", g.TitleFontSize, g.BodyFontSize)
	case g.TitleReservedHeight < 0:
		return fmt.Errorf("invalid title reservation %.2f", g.TitleReservedHeight)
	case g.ContentWidth() <= 0 || g.Height-2*g.Margin < g.LineHeight:
		return errNoContentArea
	}
	return nil
}
