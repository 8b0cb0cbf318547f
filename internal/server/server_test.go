package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/docexport/pkg/api"
)

func newTestServer(t *testing.T, opts ...api.Option) Server {
	t.Helper()
	return NewServer(&Options{
		Address:        "127.0.0.1:0",
		DisableReqLogs: true,
		Exporter:       api.NewWith(opts...),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func do(t *testing.T, s Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeFields(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var fields map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields), rec.Body.String())
	return fields
}

func TestHome(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docexport")
}

func TestReportPDF(t *testing.T) {
	body := `{"title": "Weekly: status/report", "blocks": [
		{"kind": "paragraph", "runs": [{"text": "Hello "}, {"text": "world"}]},
		{"kind": "line-break"},
		{"kind": "paragraph", "runs": [{"text": "Second paragraph"}]}
	]}`
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/reports/pdf", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="Weekly_ status_report.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
	assert.Contains(t, rec.Body.String(), "(Hello world) Tj")
}

func TestReportPDFFromHTML(t *testing.T) {
	body := `{"title": "Notes", "html": "<p>first</p><p><br></p><p>second</p>"}`
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/reports/pdf/", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "(first) Tj")
	assert.Contains(t, rec.Body.String(), "(second) Tj")
}

func TestReportPDFValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"blank title", `{"title": "  ", "blocks": []}`, "title"},
		{"unknown kind", `{"title": "x", "blocks": [{"kind": "image"}]}`, "blocks[0].kind"},
		{"blocks and html", `{"title": "x", "blocks": [{"kind": "line-break"}], "html": "<p>x</p>"}`, "html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(t), http.MethodPost, "/v1/reports/pdf", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, decodeFields(t, rec), tt.field)
		})
	}
}

func TestReportPDFMalformedBody(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/reports/pdf", `{"title": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportPDFServerError(t *testing.T) {
	s := newTestServer(t, api.WithFontFamily("Papyrus"))
	rec := do(t, s, http.MethodPost, "/v1/reports/pdf", `{"title": "x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]string{"error": "Internal Server Error"}, decodeFields(t, rec))
}

func TestCalendarICS(t *testing.T) {
	body := `{"events": [
		{"title": "A", "start": "2024-01-01T00:00:00Z", "type": "event"},
		{"title": "B", "start": "2024-01-02T10:00:00Z", "end": "2024-01-02T11:00:00Z", "type": "meeting"}
	]}`
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/calendar/ics", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="calendar.ics"`, rec.Header().Get(echo.HeaderContentDisposition))

	out := rec.Body.String()
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "DTSTART:20240101T000000Z\r\n")
	assert.Equal(t, 1, strings.Count(out, "DTEND:"))
}

func TestCalendarICSFilter(t *testing.T) {
	body := `{"events": [
		{"title": "A", "start": "2024-01-01T00:00:00Z", "type": "event"},
		{"title": "B", "start": "2024-01-02T10:00:00Z", "type": "meeting"}
	], "filter": {"type": "meeting"}}`
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/calendar/ics", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "SUMMARY:A")
	assert.Contains(t, rec.Body.String(), "SUMMARY:B")
}

func TestCalendarICSValidation(t *testing.T) {
	body := `{"events": [
		{"title": "ok", "start": "2024-01-01T00:00:00Z"},
		{"title": "no start"},
		{"title": "bad end", "start": "2024-01-01T00:00:00Z", "end": "later"}
	]}`
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/calendar/ics", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decodeFields(t, rec)
	assert.Equal(t, "this field is required", fields["events[1].start"])
	assert.Equal(t, "end must be an ISO-8601 timestamp", fields["events[2].end"])
	assert.NotContains(t, rec.Body.String(), "BEGIN:VCALENDAR")
}

func TestCalendarICSEmpty(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/calendar/ics", `{"events": []}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(rec.Body.String(), "END:VCALENDAR\r\n"))
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t)
	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	// give the listener a moment before shutting down
	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "report", filename("  ", "report"))
	assert.Equal(t, "a_b", filename("a/b", "x"))
	assert.Equal(t, "Résumé 2024", filename("Résumé 2024", "x"))
}

func TestAttachment(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"report.pdf", `attachment; filename="report.pdf"`},
		{"Résumé 2024.pdf", `attachment; filename="Resume 2024.pdf"; filename*=UTF-8''R%C3%A9sum%C3%A9%202024.pdf`},
		{"日報.pdf", `attachment; filename="__.pdf"; filename*=UTF-8''%E6%97%A5%E5%A0%B1.pdf`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := attachment(tt.name)
			assert.Equal(t, tt.want, got)
			for _, r := range got {
				assert.Less(t, r, rune(0x80), "header value must stay ASCII")
			}
		})
	}
}

func TestReportPDFNonASCIITitle(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/reports/pdf", `{"title": "Café résumé", "blocks": []}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t,
		`attachment; filename="Cafe resume.pdf"; filename*=UTF-8''Caf%C3%A9%20r%C3%A9sum%C3%A9.pdf`,
		rec.Header().Get(echo.HeaderContentDisposition))
}
