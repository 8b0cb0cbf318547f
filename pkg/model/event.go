package model

import "strings"

// EventType distinguishes plain events from meetings.
type EventType string

const (
	EventTypeEvent   EventType = "event"
	EventTypeMeeting EventType = "meeting"
)

// CalendarEvent is one record handed to the calendar encoder.
// Start and End are ISO-8601 timestamps; an empty End means the event has none.
type CalendarEvent struct {
	ID     string    `json:"id,omitempty" yaml:"id,omitempty"`
	Title  string    `json:"title" yaml:"title"`
	Start  string    `json:"start" yaml:"start"`
	End    string    `json:"end,omitempty" yaml:"end,omitempty"`
	AllDay bool      `json:"allDay,omitempty" yaml:"allDay,omitempty"`
	Type   EventType `json:"type,omitempty" yaml:"type,omitempty"`
	Email  string    `json:"email,omitempty" yaml:"email,omitempty"`
}

// HasEnd reports whether the event carries an end timestamp.
func (e CalendarEvent) HasEnd() bool {
	return strings.TrimSpace(e.End) != ""
}

// EventFilter selects events by type and owning mailbox.
// Zero-valued fields match every event.
type EventFilter struct {
	Type  EventType `json:"type,omitempty" yaml:"type,omitempty"`
	Email string    `json:"email,omitempty" yaml:"email,omitempty"`
}

// Match reports whether e passes the filter.
func (f EventFilter) Match(e CalendarEvent) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Email != "" && !strings.EqualFold(e.Email, f.Email) {
		return false
	}
	return true
}

// FilterEvents returns the events matching f, in input order.
func FilterEvents(events []CalendarEvent, f EventFilter) []CalendarEvent {
	if f == (EventFilter{}) {
		return events
	}
	out := make([]CalendarEvent, 0, len(events))
	for _, e := range events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
