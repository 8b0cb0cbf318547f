package res

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gompdf/docexport/internal/parser/html"
	"github.com/gompdf/docexport/pkg/model"
)

// DecodeDocument turns the resource into a document. A non-empty title replaces
// the one found in the resource.
func (r *Resource) DecodeDocument(title string) (*model.StyledDocument, error) {
	var doc *model.StyledDocument
	switch r.Type {
	case ResourceTypeHTML:
		parsed, err := html.NewParser().Parse(r.GetReader())
		if err != nil {
			return nil, err
		}
		doc = parsed
	case ResourceTypeJSON, ResourceTypeYAML:
		doc = &model.StyledDocument{}
		if err := yaml.Unmarshal(r.Data, doc); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", r.URL, err)
		}
		if err := validateBlocks(doc.Blocks); err != nil {
			return nil, fmt.Errorf("invalid document %s: %w", r.URL, err)
		}
	case ResourceTypeText:
		doc = textDocument(r.GetString())
	default:
		return nil, fmt.Errorf("cannot decode %s resource %s as a document", r.Type, r.URL)
	}

	if t := strings.TrimSpace(title); t != "" {
		doc.Title = t
	}
	return doc, nil
}

// DecodeEvents decodes a list of events, given either as a bare list or as an
// object with an "events" key.
func (r *Resource) DecodeEvents() ([]model.CalendarEvent, error) {
	if r.Type != ResourceTypeJSON && r.Type != ResourceTypeYAML {
		return nil, fmt.Errorf("cannot decode %s resource %s as events", r.Type, r.URL)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(r.Data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode events %s: %w", r.URL, err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	node := root.Content[0]
	var events []model.CalendarEvent
	switch node.Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&events); err != nil {
			return nil, fmt.Errorf("failed to decode events %s: %w", r.URL, err)
		}
	case yaml.MappingNode:
		var wrapper struct {
			Events []model.CalendarEvent `yaml:"events"`
		}
		if err := node.Decode(&wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode events %s: %w", r.URL, err)
		}
		events = wrapper.Events
	default:
		return nil, fmt.Errorf("events %s: expected a list or an object", r.URL)
	}
	return events, nil
}

// LoadDocument loads and decodes a document in one step
func (l *Loader) LoadDocument(ctx context.Context, urlStr, title string) (*model.StyledDocument, error) {
	r, err := l.Load(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	return r.DecodeDocument(title)
}

// LoadEvents loads and decodes a list of calendar events in one step
func (l *Loader) LoadEvents(ctx context.Context, urlStr string) ([]model.CalendarEvent, error) {
	r, err := l.Load(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	return r.DecodeEvents()
}

func validateBlocks(blocks []model.Block) error {
	for i, b := range blocks {
		switch b.Kind {
		case model.BlockParagraph, model.BlockLineBreak:
		default:
			return fmt.Errorf("block %d: unknown kind %q", i, b.Kind)
		}
	}
	return nil
}

// textDocument maps each line of plain text to a paragraph and blank lines to breaks
func textDocument(s string) *model.StyledDocument {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, "\n")
	doc := &model.StyledDocument{}
	if s == "" {
		return doc
	}
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			doc.Blocks = append(doc.Blocks, model.LineBreak())
			continue
		}
		doc.Blocks = append(doc.Blocks, model.Paragraph(line))
	}
	return doc
}
