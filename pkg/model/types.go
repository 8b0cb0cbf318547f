package model

import "strings"

// BlockKind identifies the variant of a Block.
type BlockKind string

const (
	// BlockParagraph is a run of text that wraps across lines.
	BlockParagraph BlockKind = "paragraph"
	// BlockLineBreak forces a paragraph boundary with no content.
	BlockLineBreak BlockKind = "line-break"
)

// StyledDocument is the input of the pagination engine.
// It is treated as read-only once handed to the engine.
type StyledDocument struct {
	Title  string  `json:"title" yaml:"title"`
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// Block is one structural unit of a document.
type Block struct {
	Kind BlockKind `json:"kind" yaml:"kind"`
	Runs []TextRun `json:"runs,omitempty" yaml:"runs,omitempty"`
}

// TextRun is a flat piece of paragraph text. Formatting is not modelled.
type TextRun struct {
	Text string `json:"text" yaml:"text"`
}

// Paragraph builds a paragraph block with one run per text.
func Paragraph(texts ...string) Block {
	runs := make([]TextRun, 0, len(texts))
	for _, t := range texts {
		runs = append(runs, TextRun{Text: t})
	}
	return Block{Kind: BlockParagraph, Runs: runs}
}

// LineBreak builds a forced line break block.
func LineBreak() Block {
	return Block{Kind: BlockLineBreak}
}

// Text returns the concatenated run texts of a paragraph, or "" for a line break.
func (b Block) Text() string {
	if b.Kind == BlockLineBreak {
		return ""
	}
	switch len(b.Runs) {
	case 0:
		return ""
	case 1:
		return b.Runs[0].Text
	}
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
