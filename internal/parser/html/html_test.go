package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/docexport/pkg/model"
)

func texts(doc *model.StyledDocument) []string {
	out := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if b.Kind == model.BlockLineBreak {
			out = append(out, "<br>")
			continue
		}
		out = append(out, b.Text())
	}
	return out
}

func TestParseParagraphs(t *testing.T) {
	doc, err := NewParser().ParseString(`
		<p>Hello <strong>bold</strong>   world</p>
		<p><br></p>
		<div>second
		   paragraph</div>`)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello bold world", "<br>", "second paragraph"}, texts(doc))
	assert.Len(t, doc.Blocks[0].Runs, 3)
}

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"title element", `<html><head><title> Monthly  report </title></head><body><h1>Heading</h1></body></html>`, "Monthly report"},
		{"first heading", `<h1>First</h1><h1>Second</h1><p>x</p>`, "First"},
		{"none", `<p>only body</p>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewParser().ParseString(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Title)
		})
	}
}

func TestParseLineBreaks(t *testing.T) {
	doc, err := NewParser().ParseString(`<p>one<br>two<br><br>three</p>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "<br>", "three"}, texts(doc))
}

func TestParseLists(t *testing.T) {
	doc, err := NewParser().ParseString(`
		<ul><li>apples</li><li>pears</li></ul>
		<ol start="3"><li>third</li><li>fourth</li></ol>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"* apples", "* pears", "3. third", "4. fourth"}, texts(doc))
}

func TestParsePreformatted(t *testing.T) {
	doc, err := NewParser().ParseString("<pre>line one\n\nline three\n</pre>")
	require.NoError(t, err)
	assert.Equal(t, []string{"line one", "<br>", "line three"}, texts(doc))
}

func TestParseSkipsNonContent(t *testing.T) {
	doc, err := NewParser().ParseString(`<style>p{color:red}</style><script>alert(1)</script><p>visible</p><template><p>hidden</p></template>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"visible"}, texts(doc))
}

func TestParseTable(t *testing.T) {
	doc, err := NewParser().ParseString(`<table><tr><th>Name</th><th>Qty</th></tr><tr><td>Widget</td><td>3</td></tr></table>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name Qty", "Widget 3"}, texts(doc))
}

func TestParseEmpty(t *testing.T) {
	doc, err := NewParser().ParseString("")
	require.NoError(t, err)
	assert.Empty(t, doc.Blocks)
	assert.Empty(t, doc.Title)
}
