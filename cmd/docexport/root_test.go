package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func workdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
	t.Setenv("DOCEXPORT_CONFIG", "")
	return dir
}

func TestPDFCommand(t *testing.T) {
	dir := workdir(t)
	input := filepath.Join(dir, "report.html")
	require.NoError(t, os.WriteFile(input, []byte("<title>Status</title><p>All systems nominal</p>"), 0o644))

	_, stderr, err := run(t, "pdf", "--input", input, "--page-size", "letter")
	require.NoError(t, err)
	assert.Contains(t, stderr, "exported report")

	data, err := os.ReadFile(filepath.Join(dir, "report.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(data), "(Status) Tj")
	assert.Contains(t, string(data), "612")
}

func TestPDFCommandToStdout(t *testing.T) {
	workdir(t)
	stdout, _, err := run(t, "pdf", "-i", "data:,first%20line", "-t", "Inline", "-o", "-", "--log-level", "error")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "%PDF-"))
	assert.Contains(t, stdout, "(first line) Tj")
}

func TestPDFCommandRequiresInput(t *testing.T) {
	workdir(t)
	_, _, err := run(t, "pdf")
	assert.ErrorContains(t, err, "input")
}

func TestICSCommand(t *testing.T) {
	dir := workdir(t)
	input := filepath.Join(dir, "events.yaml")
	require.NoError(t, os.WriteFile(input, []byte(`
- id: standup
  title: Standup
  start: "2024-03-01T09:00:00.000Z"
  type: meeting
  email: ana@example.com
- title: Dentist
  start: "2024-03-02"
  allDay: true
  type: event
  email: ana@example.com
`), 0o644))

	stdout, _, err := run(t, "ics", "-i", input, "--type", "meeting", "-o", "-", "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, stdout, "UID:standup\r\n")
	assert.Contains(t, stdout, "DTSTART:20240301T090000Z\r\n")
	assert.NotContains(t, stdout, "Dentist")

	_, _, err = run(t, "ics", "-i", input)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "calendar.ics"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "BEGIN:VEVENT"))
}

func TestICSCommandRejectsType(t *testing.T) {
	dir := workdir(t)
	input := filepath.Join(dir, "events.yaml")
	require.NoError(t, os.WriteFile(input, []byte("[]\n"), 0o644))

	_, _, err := run(t, "ics", "-i", input, "--type", "holiday")
	assert.ErrorContains(t, err, "invalid --type")
}

func TestInvalidConfig(t *testing.T) {
	workdir(t)
	_, _, err := run(t, "pdf", "-i", "data:,x", "--log-level", "loud")
	assert.ErrorContains(t, err, "log.level")
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "dir/report.pdf", defaultOutput("dir/report.html", ".pdf", "x.pdf"))
	assert.Equal(t, "x.pdf", defaultOutput("https://example.com/a.html", ".pdf", "x.pdf"))
	assert.Equal(t, "x.pdf", defaultOutput("data:,hello", ".pdf", "x.pdf"))
}
