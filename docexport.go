package docexport

import (
	"github.com/gompdf/docexport/pkg/api"
	"github.com/gompdf/docexport/pkg/model"
)

type Exporter = api.Exporter
type Options = api.Options
type Option = api.Option
type PageOrientation = api.PageOrientation
type Page = api.Page
type LaidOutLine = api.LaidOutLine

type StyledDocument = model.StyledDocument
type Block = model.Block
type TextRun = model.TextRun
type CalendarEvent = model.CalendarEvent
type EventFilter = model.EventFilter

func New() *Exporter                           { return api.New() }
func NewWithOptions(options Options) *Exporter { return api.NewWithOptions(options) }
func NewWith(opts ...Option) *Exporter         { return api.NewWith(opts...) }
func DefaultOptions() Options                  { return api.DefaultOptions() }

var (
	WithPageSize        = api.WithPageSize
	WithPageOrientation = api.WithPageOrientation
	WithMargin          = api.WithMargin
	WithLineHeight      = api.WithLineHeight
	WithFontSizes       = api.WithFontSizes
	WithFontFamily      = api.WithFontFamily
	WithDebug           = api.WithDebug
	WithLogger          = api.WithLogger
	WithResourcePath    = api.WithResourcePath
	WithAuthor          = api.WithAuthor
	WithSubject         = api.WithSubject
	WithKeywords        = api.WithKeywords
	WithCreator         = api.WithCreator
	WithCreationDate    = api.WithCreationDate
	WithProdID          = api.WithProdID
	WithPageSizeA4      = api.WithPageSizeA4
	WithPageSizeLetter  = api.WithPageSizeLetter
	WithPageSizeLegal   = api.WithPageSizeLegal

	Paragraph    = model.Paragraph
	LineBreak    = model.LineBreak
	FilterEvents = model.FilterEvents
)

const (
	PageSizeA3Width  = api.PageSizeA3Width
	PageSizeA3Height = api.PageSizeA3Height
	PageSizeA4Width  = api.PageSizeA4Width
	PageSizeA4Height = api.PageSizeA4Height
	PageSizeA5Width  = api.PageSizeA5Width
	PageSizeA5Height = api.PageSizeA5Height

	PageSizeLetterWidth  = api.PageSizeLetterWidth
	PageSizeLetterHeight = api.PageSizeLetterHeight
	PageSizeLegalWidth   = api.PageSizeLegalWidth
	PageSizeLegalHeight  = api.PageSizeLegalHeight

	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape

	EventTypeEvent   = model.EventTypeEvent
	EventTypeMeeting = model.EventTypeMeeting
)
