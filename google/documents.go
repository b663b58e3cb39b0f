package google

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/pkg/errors"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"

	"github.com/machinelog/machinelog-app-sheets/document"
	"github.com/machinelog/machinelog-app-sheets/log"
)

// Documents creates Google Docs, optionally filing them in a Drive folder.
type Documents struct {
	docs   *docs.Service
	drive  *drive.Service
	folder string
}

func NewDocuments(docs *docs.Service, drive *drive.Service, folder string) *Documents {
	return &Documents{
		docs:   docs,
		drive:  drive,
		folder: folder,
	}
}

func DocumentURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%v/edit", id)
}

func (d *Documents) Create(ctx context.Context, doc document.Document) (document.Ref, error) {
	created, err := d.docs.Documents.Create(&docs.Document{Title: doc.Title}).Context(ctx).Do()
	if err != nil {
		return document.Ref{}, errors.Wrap(err, "unable to create document")
	}

	ref := document.Ref{
		ID:  created.DocumentId,
		URL: DocumentURL(created.DocumentId),
	}

	if rq := body(doc); len(rq.Requests) > 0 {
		if _, err := d.docs.Documents.BatchUpdate(ref.ID, rq).Context(ctx).Do(); err != nil {
			return ref, errors.Wrapf(err, "unable to write document %v", ref.ID)
		}
	}

	if d.drive != nil && d.folder != "" {
		if err := d.move(ctx, ref.ID); err != nil {
			return ref, err
		}
	}

	return ref, nil
}

func (d *Documents) move(ctx context.Context, id string) error {
	file, err := d.drive.Files.Get(id).Fields("parents").Context(ctx).Do()
	if err != nil {
		return errors.Wrapf(err, "unable to retrieve parent folders for %v", id)
	}

	if _, err := d.drive.Files.Update(id, &drive.File{}).
		AddParents(d.folder).
		RemoveParents(strings.Join(file.Parents, ",")).
		Context(ctx).
		Do(); err != nil {
		return errors.Wrapf(err, "unable to move %v to folder %v", id, d.folder)
	}

	log.Debugf("moved document %v to folder %v", id, d.folder)

	return nil
}

// body builds the batch update that writes the document blocks into an empty document. All
// the text is inserted in a single request at the start of the body and the paragraph styles
// are then applied by range. Horizontal rules are rendered as empty paragraphs with a bottom
// border since the Docs API cannot insert a horizontal rule.
func body(doc document.Document) *docs.BatchUpdateDocumentRequest {
	rq := docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{},
	}

	if len(doc.Blocks) == 0 {
		return &rq
	}

	text := []string{}
	for _, b := range doc.Blocks {
		text = append(text, b.Text)
	}

	rq.Requests = append(rq.Requests, &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Text:     strings.Join(text, "\n"),
			Location: &docs.Location{Index: 1},
		},
	})

	index := int64(1)
	for _, b := range doc.Blocks {
		start := index
		end := start + length(b.Text) + 1
		index = end

		switch {
		case b.Kind == document.HorizontalRule:
			rq.Requests = append(rq.Requests, &docs.Request{
				UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
					Range: &docs.Range{StartIndex: start, EndIndex: end},
					ParagraphStyle: &docs.ParagraphStyle{
						BorderBottom: &docs.ParagraphBorder{
							Color:     &docs.OptionalColor{Color: &docs.Color{RgbColor: &docs.RgbColor{Red: 0.6, Green: 0.6, Blue: 0.6}}},
							Width:     &docs.Dimension{Magnitude: 1, Unit: "PT"},
							Padding:   &docs.Dimension{Magnitude: 1, Unit: "PT"},
							DashStyle: "SOLID",
						},
					},
					Fields: "borderBottom",
				},
			})

		case b.Style != document.Inherit:
			rq.Requests = append(rq.Requests, &docs.Request{
				UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
					Range: &docs.Range{StartIndex: start, EndIndex: end},
					ParagraphStyle: &docs.ParagraphStyle{
						NamedStyleType: string(b.Style),
					},
					Fields: "namedStyleType",
				},
			})
		}
	}

	return &rq
}

// length returns the length of s in UTF-16 code units, which is how the Docs API indexes text.
func length(s string) int64 {
	return int64(len(utf16.Encode([]rune(s))))
}
