package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockText(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{"single run", Paragraph("hello world"), "hello world"},
		{"runs concatenate verbatim", Paragraph("Hel", "lo ", "there"), "Hello there"},
		{"no runs", Block{Kind: BlockParagraph}, ""},
		{"line break", LineBreak(), ""},
		{"line break ignores runs", Block{Kind: BlockLineBreak, Runs: []TextRun{{Text: "x"}}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.block.Text())
		})
	}
}

func TestFilterEvents(t *testing.T) {
	events := []CalendarEvent{
		{Title: "a", Type: EventTypeEvent, Email: "me@example.com"},
		{Title: "b", Type: EventTypeMeeting, Email: "me@example.com"},
		{Title: "c", Type: EventTypeMeeting, Email: "other@example.com"},
	}

	titles := func(evs []CalendarEvent) []string {
		out := []string{}
		for _, e := range evs {
			out = append(out, e.Title)
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c"}, titles(FilterEvents(events, EventFilter{})))
	assert.Equal(t, []string{"b", "c"}, titles(FilterEvents(events, EventFilter{Type: EventTypeMeeting})))
	assert.Equal(t, []string{"a", "b"}, titles(FilterEvents(events, EventFilter{Email: "ME@example.com"})))
	assert.Equal(t, []string{"c"}, titles(FilterEvents(events, EventFilter{Type: EventTypeMeeting, Email: "other@example.com"})))
	assert.Empty(t, FilterEvents(events, EventFilter{Type: "holiday"}))
}
