// Package ics serializes calendar events as an iCalendar (RFC 5545) document.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gompdf/docexport/pkg/model"
)

// DefaultProdID identifies the producer of generated calendars
const DefaultProdID = "-//docexport//Calendar Export//EN"

const (
	// TimestampLayout is the UTC basic format used for DTSTART and DTEND
	TimestampLayout = "20060102T150405Z"
	// DateLayout is the DATE value format used by all-day events
	DateLayout = "20060102"

	crlf         = "\r\n"
	maxLineOctet = 75
)

// ErrInvalidTimestamp is returned when an event start or end cannot be parsed
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// TimestampError reports which event field failed to parse
type TimestampError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("event %d: %s %q: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}

// uidNamespace scopes name-based UIDs for events without an ID
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/gompdf/docexport/calendar"))

var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without an offset are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}

// FormatTimestamp renders t in UTC without fractional seconds
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimestampLayout)
}

// FormatDate renders the UTC calendar date of t
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Encoder writes VCALENDAR documents
type Encoder struct {
	ProdID string
}

// NewEncoder creates an encoder with the default product identifier
func NewEncoder() *Encoder {
	return &Encoder{ProdID: DefaultProdID}
}

// Encode serializes events in input order
func (e *Encoder) Encode(events []model.CalendarEvent) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.encode(&buf, events); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo serializes events to w. Nothing is written when an event is invalid.
func (e *Encoder) EncodeTo(w io.Writer, events []model.CalendarEvent) error {
	data, err := e.Encode(events)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

type vevent struct {
	uid   string
	title string
	// start and end hold the full DTSTART/DTEND content lines
	start string
	end   string
}

// dateProperty renders a DTSTART or DTEND line, as a DATE value for all-day events
func dateProperty(name string, t time.Time, allDay bool) string {
	if allDay {
		return name + ";VALUE=DATE:" + FormatDate(t)
	}
	return name + ":" + FormatTimestamp(t)
}

func (e *Encoder) encode(buf *bytes.Buffer, events []model.CalendarEvent) error {
	// validate everything up front
	entries := make([]vevent, 0, len(events))
	for i, ev := range events {
		start, err := ParseTimestamp(ev.Start)
		if err != nil {
			return &TimestampError{Index: i, Field: "start", Value: ev.Start, Err: err}
		}
		entry := vevent{
			uid:   eventUID(ev),
			title: ev.Title,
			start: dateProperty("DTSTART", start, ev.AllDay),
		}
		if ev.HasEnd() {
			end, err := ParseTimestamp(ev.End)
			if err != nil {
				return &TimestampError{Index: i, Field: "end", Value: ev.End, Err: err}
			}
			entry.end = dateProperty("DTEND", end, ev.AllDay)
		}
		entries = append(entries, entry)
	}

	prodID := e.ProdID
	if prodID == "" {
		prodID = DefaultProdID
	}

	writeLine(buf, "BEGIN:VCALENDAR")
	writeLine(buf, "VERSION:2.0")
	writeLine(buf, "PRODID:"+prodID)
	for _, entry := range entries {
		writeLine(buf, "BEGIN:VEVENT")
		writeLine(buf, "UID:"+escapeText(entry.uid))
		writeLine(buf, "SUMMARY:"+escapeText(entry.title))
		writeLine(buf, entry.start)
		if entry.end != "" {
			writeLine(buf, entry.end)
		}
		writeLine(buf, "END:VEVENT")
	}
	writeLine(buf, "END:VCALENDAR")
	return nil
}

func eventUID(ev model.CalendarEvent) string {
	if id := strings.TrimSpace(ev.ID); id != "" {
		return id
	}
	name := ev.Title + "|" + ev.Start + "|" + ev.End
	return uuid.NewSHA1(uidNamespace, []byte(name)).String()
}

// escapeText escapes a TEXT property value
func escapeText(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', ';', ',':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
			sb.WriteString(`\n`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// writeLine writes a content line folded at 75 octets without splitting a UTF-8 sequence
func writeLine(buf *bytes.Buffer, line string) {
	limit := maxLineOctet
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		buf.WriteString(line[:cut])
		buf.WriteString(crlf)
		buf.WriteByte(' ')
		line = line[cut:]
		// continuation lines carry the leading space
		limit = maxLineOctet - 1
	}
	buf.WriteString(line)
	buf.WriteString(crlf)
}
