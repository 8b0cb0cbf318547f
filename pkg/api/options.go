package api

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gompdf/docexport/internal/pagination"
	"github.com/gompdf/docexport/internal/render/ics"
	"github.com/gompdf/docexport/internal/text"
)

// Options represents configuration options for the exporter
type Options struct {
	// Page dimensions in points
	PageWidth  float64
	PageHeight float64
	// Page orientation: portrait or landscape
	PageOrientation PageOrientation

	// Layout constants
	Margin              float64
	LineHeight          float64
	TitleFontSize       float64
	BodyFontSize        float64
	TitleReservedHeight float64

	// Core font family: Times, Helvetica or Courier
	FontFamily string

	Debug  bool
	Logger *slog.Logger

	// Resource paths
	ResourcePaths []string

	// Document metadata
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate time.Time

	// Calendar product identifier
	ProdID string
}

// Option is a function that modifies Options
type Option func(*Options)

// PageOrientation represents page orientation
type PageOrientation string

const (
	// PageOrientationPortrait sets the page to portrait orientation
	PageOrientationPortrait PageOrientation = "portrait"
	// PageOrientationLandscape sets the page to landscape orientation
	PageOrientationLandscape PageOrientation = "landscape"
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	g := pagination.DefaultGeometry()
	return Options{
		PageWidth:           g.Width,
		PageHeight:          g.Height,
		PageOrientation:     PageOrientationPortrait,
		Margin:              g.Margin,
		LineHeight:          g.LineHeight,
		TitleFontSize:       g.TitleFontSize,
		BodyFontSize:        g.BodyFontSize,
		TitleReservedHeight: g.TitleReservedHeight,
		FontFamily:          text.DefaultFamily,
		ResourcePaths:       []string{},
		Creator:             "docexport",
		Producer:            "docexport",
		ProdID:              ics.DefaultProdID,
	}
}

// WithPageSize sets the page size
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithPageOrientation sets the page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// WithMargin sets the margin applied to every page edge
func WithMargin(margin float64) Option {
	return func(o *Options) {
		o.Margin = margin
	}
}

// WithLineHeight sets the vertical distance between baselines
func WithLineHeight(lineHeight float64) Option {
	return func(o *Options) {
		o.LineHeight = lineHeight
	}
}

// WithFontSizes sets the title and body font sizes
func WithFontSizes(title, body float64) Option {
	return func(o *Options) {
		o.TitleFontSize = title
		o.BodyFontSize = body
	}
}

// WithFontFamily selects the core font family
func WithFontFamily(family string) Option {
	return func(o *Options) {
		o.FontFamily = family
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithLogger sets the logger used for debug records
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithResourcePath adds a path to search for input resources
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// WithCreator sets the creating application
func WithCreator(creator string) Option {
	return func(o *Options) {
		o.Creator = creator
	}
}

// WithCreationDate sets the creation date written into PDF metadata
func WithCreationDate(t time.Time) Option {
	return func(o *Options) {
		o.CreationDate = t
	}
}

// WithProdID sets the PRODID of exported calendars
func WithProdID(prodID string) Option {
	return func(o *Options) {
		o.ProdID = prodID
	}
}

// Standard page sizes in points (1/72 inch)
const (
	PageSizeA3Width  = 841.89
	PageSizeA3Height = 1190.55
	PageSizeA4Width  = 595.28
	PageSizeA4Height = 841.89
	PageSizeA5Width  = 419.53
	PageSizeA5Height = 595.28

	// US Letter and Legal
	PageSizeLetterWidth  = 612
	PageSizeLetterHeight = 792
	PageSizeLegalWidth   = 612
	PageSizeLegalHeight  = 1008
)

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4Width, PageSizeA4Height)
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetterWidth, PageSizeLetterHeight)
}

// WithPageSizeLegal sets the page size to US Legal
func WithPageSizeLegal() Option {
	return WithPageSize(PageSizeLegalWidth, PageSizeLegalHeight)
}

// PageSizeByName returns the dimensions of a named paper size
func PageSizeByName(name string) (width, height float64, ok bool) {
	for _, s := range []pagination.PageSize{
		pagination.PageSizeA3,
		pagination.PageSizeA4,
		pagination.PageSizeA5,
		pagination.PageSizeLetter,
		pagination.PageSizeLegal,
	} {
		if strings.EqualFold(s.Name, name) {
			return s.Width, s.Height, true
		}
	}
	return 0, 0, false
}
