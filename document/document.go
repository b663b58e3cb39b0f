// Package document renders a worksheet row as a structured report document and links
// the generated document back into the row.
package document

import (
	"fmt"
	"time"

	"github.com/machinelog/machinelog-app-sheets/record"
)

// Kind distinguishes text paragraphs from horizontal rules.
type Kind int

const (
	Paragraph Kind = iota
	HorizontalRule
)

// Style is a named paragraph style. The values are the Google Docs named style types.
type Style string

const (
	Inherit  Style = ""
	Normal   Style = "NORMAL_TEXT"
	Heading1 Style = "HEADING_1"
	Heading2 Style = "HEADING_2"
)

// GeneratedFormat is the layout of the 'Generated on' footer timestamp.
const GeneratedFormat = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

type Block struct {
	Kind  Kind
	Style Style
	Text  string
}

type Document struct {
	Title  string
	Blocks []Block
}

// Ref identifies a created document.
type Ref struct {
	ID  string
	URL string
}

func (k Kind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case HorizontalRule:
		return "rule"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Render lays out a row record as a machine report: the machine number and timestamp
// headings, one paragraph (plus a blank line) per field and a 'generated on' footer.
func Render(r *record.Record, generated time.Time) Document {
	blocks := []Block{
		heading(Heading1, fmt.Sprintf("Machine Number: %v", r.MachineNumber)),
		heading(Heading2, fmt.Sprintf("Timestamp: %v", r.Timestamp)),
		rule(),
	}

	for _, f := range r.Fields {
		blocks = append(blocks, paragraph(fmt.Sprintf("%v: %v", f.Label, f.Value)))
		blocks = append(blocks, paragraph(""))
	}

	blocks = append(blocks, rule())
	blocks = append(blocks, heading(Normal, fmt.Sprintf("Generated on: %v", generated.Format(GeneratedFormat))))

	return Document{
		Title:  fmt.Sprintf("Machine %v - Generated Report", r.MachineNumber),
		Blocks: blocks,
	}
}

func heading(style Style, text string) Block {
	return Block{Kind: Paragraph, Style: style, Text: text}
}

func paragraph(text string) Block {
	return Block{Kind: Paragraph, Style: Inherit, Text: text}
}

func rule() Block {
	return Block{Kind: HorizontalRule}
}
