package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gompdf/docexport/internal/pagination"
	"github.com/gompdf/docexport/internal/parser/html"
	"github.com/gompdf/docexport/internal/render/ics"
	"github.com/gompdf/docexport/internal/render/pdf"
	"github.com/gompdf/docexport/internal/res"
	"github.com/gompdf/docexport/pkg/model"
)

// Page is one laid-out page
type Page = pagination.Page

// LaidOutLine is one positioned line of text
type LaidOutLine = pagination.LaidOutLine

// Exporter is the main API for paginating documents and exporting them as
// PDF, and for exporting calendar events as iCalendar. Every call builds its
// own engine state, so one Exporter may be shared between goroutines.
type Exporter struct {
	options Options
}

// New creates a new exporter with default options
func New() *Exporter {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new exporter with the specified options
func NewWithOptions(options Options) *Exporter {
	return &Exporter{options: options}
}

// NewWith creates an exporter from the defaults and the given options
func NewWith(opts ...Option) *Exporter {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return NewWithOptions(options)
}

// Options returns a copy of the active options
func (e *Exporter) Options() Options {
	return e.options
}

// WithOption returns a new exporter with the specified option set
func (e *Exporter) WithOption(option Option) *Exporter {
	newOptions := e.options
	newOptions.ResourcePaths = append([]string(nil), e.options.ResourcePaths...)
	option(&newOptions)
	return NewWithOptions(newOptions)
}

func (e *Exporter) logger() *slog.Logger {
	if e.options.Logger != nil {
		return e.options.Logger
	}
	return slog.Default()
}

// Geometry returns the page geometry the options describe
func (e *Exporter) Geometry() pagination.PageGeometry {
	o := e.options
	pageWidth, pageHeight := o.PageWidth, o.PageHeight

	switch o.PageOrientation {
	case PageOrientationLandscape:
		if pageWidth < pageHeight {
			pageWidth, pageHeight = pageHeight, pageWidth
		}
	case PageOrientationPortrait, "":
		if pageWidth > pageHeight {
			pageWidth, pageHeight = pageHeight, pageWidth
		}
	}

	return pagination.PageGeometry{
		Width:               pageWidth,
		Height:              pageHeight,
		Margin:              o.Margin,
		LineHeight:          o.LineHeight,
		TitleFontSize:       o.TitleFontSize,
		BodyFontSize:        o.BodyFontSize,
		TitleReservedHeight: o.TitleReservedHeight,
	}
}

func (e *Exporter) engine() (*pagination.Engine, error) {
	switch e.options.PageOrientation {
	case PageOrientationPortrait, PageOrientationLandscape, "":
	default:
		return nil, fmt.Errorf("invalid page orientation %q", e.options.PageOrientation)
	}

	engine := pagination.NewEngine()
	if err := engine.SetOptions(pagination.Options{
		Geometry:   e.Geometry(),
		FontFamily: e.options.FontFamily,
	}); err != nil {
		return nil, fmt.Errorf("invalid layout options: %w", err)
	}
	return engine, nil
}

// Paginate lays doc out into pages without rendering them
func (e *Exporter) Paginate(doc model.StyledDocument) ([]*Page, error) {
	engine, err := e.engine()
	if err != nil {
		return nil, err
	}
	return e.paginate(engine, doc), nil
}

func (e *Exporter) paginate(engine *pagination.Engine, doc model.StyledDocument) []*Page {
	pages := engine.Paginate(doc)
	if e.options.Debug {
		g := engine.Options().Geometry
		e.logger().Debug("paginated document",
			"title", doc.Title,
			"blocks", len(doc.Blocks),
			"pages", len(pages),
			"width", g.Width,
			"height", g.Height,
			"font", engine.Options().FontFamily)
	}
	return pages
}

// ExportPDFBytes paginates doc and returns the PDF bytes
func (e *Exporter) ExportPDFBytes(doc model.StyledDocument) ([]byte, error) {
	engine, err := e.engine()
	if err != nil {
		return nil, err
	}
	pages := e.paginate(engine, doc)

	renderer := pdf.NewRenderer(engine.Options().Geometry)
	renderer.FontFamily = engine.Options().FontFamily
	renderer.Debug = e.options.Debug
	renderer.Logger = e.logger()

	data, err := renderer.RenderBytes(pages, pdf.RenderOptions{
		Title:        doc.Title,
		Author:       e.options.Author,
		Subject:      e.options.Subject,
		Keywords:     e.options.Keywords,
		Creator:      e.options.Creator,
		Producer:     e.options.Producer,
		CreationDate: e.options.CreationDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return data, nil
}

// ExportPDF paginates doc and writes the PDF to output. Nothing is written on failure.
func (e *Exporter) ExportPDF(doc model.StyledDocument, output io.Writer) error {
	data, err := e.ExportPDFBytes(doc)
	if err != nil {
		return err
	}
	if _, err := output.Write(data); err != nil {
		return fmt.Errorf("failed to copy PDF to output: %w", err)
	}
	return nil
}

// ExportHTML extracts a document from HTML and writes it as PDF. A non-empty
// title replaces the one found in the markup.
func (e *Exporter) ExportHTML(title, htmlContent string, output io.Writer) error {
	doc, err := html.NewParser().ParseString(htmlContent)
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}
	if t := strings.TrimSpace(title); t != "" {
		doc.Title = t
	}
	return e.ExportPDF(*doc, output)
}

func (e *Exporter) loader(base string) *res.Loader {
	loader := res.NewLoader(base)
	for _, path := range e.options.ResourcePaths {
		loader.AddSearchPath(path)
	}
	return loader
}

// LoadDocument loads a document from a file, URL or data URL
func (e *Exporter) LoadDocument(ctx context.Context, input, title string) (*model.StyledDocument, error) {
	doc, err := e.loader(input).LoadDocument(ctx, input, title)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", input, err)
	}
	return doc, nil
}

// LoadEvents loads calendar events from a file, URL or data URL
func (e *Exporter) LoadEvents(ctx context.Context, input string) ([]model.CalendarEvent, error) {
	events, err := e.loader(input).LoadEvents(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to load events %s: %w", input, err)
	}
	return events, nil
}

// ExportFile loads a document from input and writes it as PDF to the output path
func (e *Exporter) ExportFile(ctx context.Context, input, outputPath, title string) error {
	doc, err := e.LoadDocument(ctx, input, title)
	if err != nil {
		return err
	}
	data, err := e.ExportPDFBytes(*doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF file: %w", err)
	}
	return nil
}

func (e *Exporter) encoder() *ics.Encoder {
	enc := ics.NewEncoder()
	if e.options.ProdID != "" {
		enc.ProdID = e.options.ProdID
	}
	return enc
}

// ExportCalendarBytes serializes events as an iCalendar document
func (e *Exporter) ExportCalendarBytes(events []model.CalendarEvent) ([]byte, error) {
	data, err := e.encoder().Encode(events)
	if err != nil {
		return nil, err
	}
	if e.options.Debug {
		e.logger().Debug("encoded calendar", "events", len(events), "bytes", len(data))
	}
	return data, nil
}

// ExportCalendar writes events as an iCalendar document. Nothing is written when
// an event carries an invalid timestamp.
func (e *Exporter) ExportCalendar(events []model.CalendarEvent, output io.Writer) error {
	data, err := e.ExportCalendarBytes(events)
	if err != nil {
		return err
	}
	if _, err := output.Write(data); err != nil {
		return fmt.Errorf("failed to copy calendar to output: %w", err)
	}
	return nil
}

// ExportCalendarFile loads events from input, keeps those matching filter and
// writes them to the output path
func (e *Exporter) ExportCalendarFile(ctx context.Context, input, outputPath string, filter model.EventFilter) error {
	events, err := e.LoadEvents(ctx, input)
	if err != nil {
		return err
	}
	data, err := e.ExportCalendarBytes(model.FilterEvents(events, filter))
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write calendar file: %w", err)
	}
	return nil
}
