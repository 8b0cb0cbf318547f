package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gompdf/docexport/internal/parser/html"
	"github.com/gompdf/docexport/pkg/api"
	"github.com/gompdf/docexport/pkg/model"
)

const (
	mimePDF      = "application/pdf"
	mimeCalendar = "text/calendar; charset=utf-8"

	calendarFilename = "calendar.ics"
)

type (
	reportRequest struct {
		Title  string         `json:"title" validate:"notblank"`
		Blocks []blockRequest `json:"blocks" validate:"dive"`
		HTML   string         `json:"html"`
	}

	blockRequest struct {
		Kind model.BlockKind `json:"kind" validate:"required,oneof=paragraph line-break"`
		Runs []model.TextRun `json:"runs"`
	}

	calendarRequest struct {
		Events []eventRequest     `json:"events" validate:"dive"`
		Filter model.EventFilter `json:"filter"`
	}

	eventRequest struct {
		ID     string          `json:"id"`
		Title  string          `json:"title"`
		Start  string          `json:"start" validate:"required,timestamp"`
		End    string          `json:"end" validate:"omitempty,timestamp"`
		AllDay bool            `json:"allDay"`
		Type   model.EventType `json:"type" validate:"omitempty,oneof=event meeting"`
		Email  string          `json:"email" validate:"omitempty,email"`
	}
)

func (r reportRequest) document() (model.StyledDocument, error) {
	if strings.TrimSpace(r.HTML) != "" {
		doc, err := html.NewParser().ParseString(r.HTML)
		if err != nil {
			return model.StyledDocument{}, err
		}
		doc.Title = strings.TrimSpace(r.Title)
		return *doc, nil
	}

	doc := model.StyledDocument{Title: strings.TrimSpace(r.Title), Blocks: make([]model.Block, 0, len(r.Blocks))}
	for _, b := range r.Blocks {
		doc.Blocks = append(doc.Blocks, model.Block{Kind: b.Kind, Runs: b.Runs})
	}
	return doc, nil
}

func (r calendarRequest) events() []model.CalendarEvent {
	events := make([]model.CalendarEvent, 0, len(r.Events))
	for _, e := range r.Events {
		events = append(events, model.CalendarEvent{
			ID:     e.ID,
			Title:  e.Title,
			Start:  e.Start,
			End:    e.End,
			AllDay: e.AllDay,
			Type:   e.Type,
			Email:  e.Email,
		})
	}
	return model.FilterEvents(events, r.Filter)
}

type exportAPI struct {
	exporter *api.Exporter
}

func registerExportAPI(g *echo.Group, exporter *api.Exporter) {
	a := exportAPI{exporter: exporter}

	g.POST("/reports/pdf", a.reportPDF)
	g.POST("/calendar/ics", a.calendarICS)
}

func home(c echo.Context) error {
	return c.String(http.StatusOK, "docexport: report and calendar export service")
}

// Handlers

func (a *exportAPI) reportPDF(c echo.Context) error {
	data := new(reportRequest)
	if err := c.Bind(data); err != nil {
		return err
	}
	if err := c.Validate(data); err != nil {
		return errors.Wrap(err, "invalid report request")
	}
	if len(data.Blocks) > 0 && strings.TrimSpace(data.HTML) != "" {
		return newBadRequestError(nil, FieldError{Field: "html", Error: "provide either blocks or html, not both"})
	}

	doc, err := data.document()
	if err != nil {
		return newBadRequestError(nil, FieldError{Field: "html", Error: err.Error()})
	}

	pdf, err := a.exporter.ExportPDFBytes(doc)
	if err != nil {
		return errors.Wrap(err, "export report")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(filename(doc.Title, "report")+".pdf"))
	return c.Blob(http.StatusOK, mimePDF, pdf)
}

func (a *exportAPI) calendarICS(c echo.Context) error {
	data := new(calendarRequest)
	if err := c.Bind(data); err != nil {
		return err
	}
	if err := c.Validate(data); err != nil {
		return errors.Wrap(err, "invalid calendar request")
	}

	cal, err := a.exporter.ExportCalendarBytes(data.events())
	if err != nil {
		return errors.Wrap(err, "export calendar")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(calendarFilename))
	return c.Blob(http.StatusOK, mimeCalendar, cal)
}

// attachment builds a Content-Disposition value. Names outside ASCII get an
// ASCII fallback plus an RFC 5987 filename* parameter carrying the UTF-8 name.
func attachment(name string) string {
	fallback := asciiFold(name)
	if fallback == name {
		return fmt.Sprintf("attachment; filename=%q", name)
	}
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", fallback, url.PathEscape(name))
}

// asciiFold strips diacritics and replaces whatever is still outside ASCII with '_'
func asciiFold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Map(func(r rune) rune {
		if r >= utf8.RuneSelf {
			return '_'
		}
		return r
	}, folded)
}

// filename keeps letters, digits, spaces, dots, dashes and underscores of title
func filename(title, fallback string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == ' ', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, strings.TrimSpace(title))
	name = strings.Trim(name, ". ")
	if name == "" {
		return fallback
	}
	return name
}
