package res

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/docexport/pkg/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "report.html", "<h1>Report</h1><p>body</p>")

	r, err := NewLoader("").Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, ResourceTypeHTML, r.Type)
	assert.Equal(t, "text/html", r.MimeType)

	doc, err := r.DecodeDocument("")
	require.NoError(t, err)
	assert.Equal(t, "Report", doc.Title)
	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, "body", doc.Blocks[1].Text())
}

func TestLoadRelativeToBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "events.yaml", "- title: A\n  start: \"2024-01-01T00:00:00Z\"\n")

	l := NewLoader(filepath.Join(dir, "index.html"))
	events, err := l.LoadEvents(context.Background(), "events.yaml")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "A", events[0].Title)
}

func TestLoadSearchPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "first\n\nsecond\n")

	l := NewLoader("")
	_, err := l.Load(context.Background(), "missing/notes.txt")
	require.ErrorIs(t, err, ErrNotFound)

	l.AddSearchPath(dir)
	doc, err := l.LoadDocument(context.Background(), "missing/notes.txt", "Notes")
	require.NoError(t, err)

	want := &model.StyledDocument{
		Title:  "Notes",
		Blocks: []model.Block{model.Paragraph("first"), model.LineBreak(), model.Paragraph("second")},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRemoteIsCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"title":"Remote","blocks":[{"kind":"paragraph","runs":[{"text":"hi"}]},{"kind":"line-break"}]}`))
	}))
	defer srv.Close()

	l := NewLoader("")
	for i := 0; i < 2; i++ {
		doc, err := l.LoadDocument(context.Background(), srv.URL+"/doc", "")
		require.NoError(t, err)
		assert.Equal(t, "Remote", doc.Title)
		assert.Equal(t, []model.Block{model.Paragraph("hi"), model.LineBreak()}, doc.Blocks)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestLoadRemoteResolvesAgainstBase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/events.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("events:\n  - title: Sync\n    start: \"2024-03-01T09:00:00Z\"\n    type: meeting\n"))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL + "/data/index.html")
	events, err := l.LoadEvents(context.Background(), "events.yaml")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventTypeMeeting, events[0].Type)

	_, err = l.Load(context.Background(), "other.yaml")
	assert.Error(t, err)
}

func TestLoadRemoteHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader("").Load(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadDataURL(t *testing.T) {
	l := NewLoader("")

	r, err := l.Load(context.Background(), "data:,Hello%20World")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", r.GetString())
	assert.Equal(t, ResourceTypeText, r.Type)

	encoded := base64.StdEncoding.EncodeToString([]byte("<p>encoded</p>"))
	doc, err := l.LoadDocument(context.Background(), "data:text/html;base64,"+encoded, "Inline")
	require.NoError(t, err)
	assert.Equal(t, "Inline", doc.Title)
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, "encoded", doc.Blocks[0].Text())

	_, err = l.Load(context.Background(), "data:text/plain;base64,!!!")
	assert.Error(t, err)
	_, err = l.Load(context.Background(), "data:no-comma")
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownBlockKind(t *testing.T) {
	r := &Resource{URL: "doc.yaml", Type: ResourceTypeYAML, Data: []byte("title: x\nblocks:\n  - kind: image\n")}
	_, err := r.DecodeDocument("")
	assert.ErrorContains(t, err, `unknown kind "image"`)
}

func TestDecodeEventsRejectsText(t *testing.T) {
	r := &Resource{URL: "events.txt", Type: ResourceTypeText, Data: []byte("hello")}
	_, err := r.DecodeEvents()
	assert.Error(t, err)
}
