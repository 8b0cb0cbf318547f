package pagination

import (
	"github.com/gompdf/docexport/internal/text"
	"github.com/gompdf/docexport/pkg/model"
)

// Options represents options for the pagination engine
type Options struct {
	Geometry   PageGeometry
	FontFamily string
}

// Engine handles the pagination process
type Engine struct {
	options Options
	shaper  *text.TextShaper
}

// NewEngine creates a new pagination engine with the default geometry and serif font
func NewEngine() *Engine {
	return &Engine{
		options: Options{
			Geometry:   DefaultGeometry(),
			FontFamily: text.DefaultFamily,
		},
		shaper: text.NewTextShaper(nil),
	}
}

// SetOptions validates and applies options for the pagination engine
func (e *Engine) SetOptions(options Options) error {
	if err := options.Geometry.Validate(); err != nil {
		return err
	}
	metrics, err := text.MetricsFor(options.FontFamily)
	if err != nil {
		return err
	}
	options.FontFamily = metrics.Family
	e.options = options
	e.shaper = text.NewTextShaper(metrics)
	return nil
}

// Options returns the active options
func (e *Engine) Options() Options {
	return e.options
}

// Shaper returns the text shaper used for measuring
func (e *Engine) Shaper() *text.TextShaper {
	return e.shaper
}

// Paginate breaks content into pages
func (e *Engine) Paginate(doc model.StyledDocument) []*Page {
	return NewPaginator(e.options.Geometry, e.shaper).Paginate(doc)
}
