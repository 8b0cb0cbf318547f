package html

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gompdf/docexport/pkg/model"
)

// Parser extracts a StyledDocument from an HTML fragment or page.
// Inline formatting is dropped; only the block structure survives.
type Parser struct {
	// ListBullet prefixes items of unordered lists
	ListBullet string
}

// NewParser creates a new HTML parser
func NewParser() *Parser {
	return &Parser{ListBullet: "* "}
}

// ParseString parses HTML from a string
func (p *Parser) ParseString(content string) (*model.StyledDocument, error) {
	return p.Parse(strings.NewReader(content))
}

// Parse parses HTML from an io.Reader. The title is taken from <title>,
// else from the first <h1>.
func (p *Parser) Parse(r io.Reader) (*model.StyledDocument, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	e := &extractor{bullet: p.ListBullet}
	e.walk(node)
	e.flush()

	title := e.title
	if title == "" {
		title = e.heading
	}
	return &model.StyledDocument{Title: title, Blocks: e.blocks}, nil
}

type list struct {
	ordered bool
	next    int
}

type extractor struct {
	bullet  string
	blocks  []model.Block
	runs    []model.TextRun
	title   string
	heading string
	pre     int
	lists   []*list
}

var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Svg:      true,
	atom.Math:     true,
}

var blockLevel = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Blockquote: true,
	atom.Table:      true,
	atom.Tr:         true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Header:     true,
	atom.Footer:     true,
	atom.Main:       true,
	atom.Nav:        true,
	atom.Aside:      true,
	atom.Figure:     true,
	atom.Figcaption: true,
	atom.Address:    true,
	atom.Hr:         true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Dd:         true,
	atom.Form:       true,
	atom.Fieldset:   true,
	atom.Details:    true,
	atom.Summary:    true,
	atom.Caption:    true,
}

func (e *extractor) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		e.text(n.Data)
		return
	case html.ElementNode:
		e.element(n)
		return
	case html.DocumentNode:
		e.children(n)
	}
}

func (e *extractor) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c)
	}
}

func (e *extractor) element(n *html.Node) {
	a := n.DataAtom
	switch {
	case skipped[a]:
		return
	case a == atom.Title:
		e.title = collapse(textContent(n))
	case a == atom.Br:
		e.lineBreak()
	case a == atom.Ul || a == atom.Ol:
		e.flush()
		e.lists = append(e.lists, &list{ordered: a == atom.Ol, next: startOf(n)})
		e.children(n)
		e.lists = e.lists[:len(e.lists)-1]
		e.flush()
	case a == atom.Li:
		e.flush()
		e.add(e.itemPrefix())
		e.children(n)
		e.flush()
	case a == atom.Pre:
		e.flush()
		e.pre++
		e.children(n)
		e.pre--
		e.flush()
	case a == atom.Td || a == atom.Th:
		e.children(n)
		e.add(" ")
	case blockLevel[a]:
		e.flush()
		if a == atom.H1 && e.heading == "" {
			e.heading = collapse(textContent(n))
		}
		e.children(n)
		e.flush()
	default:
		e.children(n)
	}
}

func (e *extractor) text(s string) {
	if e.pre == 0 {
		e.add(squeeze(s))
		return
	}
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			e.lineBreak()
		}
		e.add(line)
	}
}

func (e *extractor) add(s string) {
	if s == "" {
		return
	}
	e.runs = append(e.runs, model.TextRun{Text: s})
}

// lineBreak ends the current paragraph, or emits an empty line when there is none
func (e *extractor) lineBreak() {
	if e.hasText() {
		e.flush()
		return
	}
	e.runs = nil
	e.blocks = append(e.blocks, model.LineBreak())
}

func (e *extractor) hasText() bool {
	for _, r := range e.runs {
		if strings.TrimSpace(r.Text) != "" {
			return true
		}
	}
	return false
}

// flush turns the pending runs into a paragraph, trimming the outer whitespace
func (e *extractor) flush() {
	if !e.hasText() {
		e.runs = nil
		return
	}
	runs := e.runs
	e.runs = nil

	for len(runs) > 0 && strings.TrimSpace(runs[0].Text) == "" {
		runs = runs[1:]
	}
	for len(runs) > 0 && strings.TrimSpace(runs[len(runs)-1].Text) == "" {
		runs = runs[:len(runs)-1]
	}
	runs[0].Text = strings.TrimLeft(runs[0].Text, " \t\r\n")
	last := len(runs) - 1
	runs[last].Text = strings.TrimRight(runs[last].Text, " \t\r\n")

	e.blocks = append(e.blocks, model.Block{Kind: model.BlockParagraph, Runs: runs})
}

func (e *extractor) itemPrefix() string {
	if len(e.lists) == 0 {
		return e.bullet
	}
	l := e.lists[len(e.lists)-1]
	if !l.ordered {
		return e.bullet
	}
	prefix := strconv.Itoa(l.next) + ". "
	l.next++
	return prefix
}

func startOf(n *html.Node) int {
	for _, attr := range n.Attr {
		if attr.Key == "start" {
			if v, err := strconv.Atoi(strings.TrimSpace(attr.Val)); err == nil {
				return v
			}
		}
	}
	return 1
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && skipped[n.DataAtom] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

// collapse joins the words of s with single spaces
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// squeeze collapses inner whitespace but keeps a single space at either edge
// so adjacent inline runs stay separated.
func squeeze(s string) string {
	if s == "" {
		return ""
	}
	body := collapse(s)
	if body == "" {
		return " "
	}
	if isSpace(s[0]) {
		body = " " + body
	}
	if isSpace(s[len(s)-1]) {
		body += " "
	}
	return body
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
