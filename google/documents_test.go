package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"github.com/machinelog/machinelog-app-sheets/document"
)

func TestBody(t *testing.T) {
	doc := document.Document{
		Title: "Machine M-17 - Generated Report",
		Blocks: []document.Block{
			{Kind: document.Paragraph, Style: document.Heading1, Text: "Machine Number: M-17"},
			{Kind: document.HorizontalRule},
			{Kind: document.Paragraph, Style: document.Inherit, Text: "Issue: Belt worn"},
			{Kind: document.Paragraph, Style: document.Normal, Text: "Generated on"},
		},
	}

	rq := body(doc)

	if len(rq.Requests) != 4 {
		t.Fatalf("Incorrect number of requests - expected:%v, got:%v", 4, len(rq.Requests))
	}

	insert := rq.Requests[0].InsertText
	if insert == nil {
		t.Fatalf("Expected InsertText request, got %+v", rq.Requests[0])
	}

	text := "Machine Number: M-17\n\nIssue: Belt worn\nGenerated on"
	if insert.Text != text {
		t.Errorf("Incorrect text\n   expected: %q\n   got:      %q\n", text, insert.Text)
	}

	if insert.Location.Index != 1 {
		t.Errorf("Incorrect insert location - expected:%v, got:%v", 1, insert.Location.Index)
	}

	ranges := []docs.Range{}
	for _, r := range rq.Requests[1:] {
		ranges = append(ranges, *r.UpdateParagraphStyle.Range)
	}

	expected := []docs.Range{
		{StartIndex: 1, EndIndex: 22},
		{StartIndex: 22, EndIndex: 23},
		{StartIndex: 40, EndIndex: 53},
	}

	if !reflect.DeepEqual(ranges, expected) {
		t.Errorf("Incorrect paragraph ranges\n   expected: %+v\n   got:      %+v\n", expected, ranges)
	}

	if style := rq.Requests[1].UpdateParagraphStyle; style.ParagraphStyle.NamedStyleType != "HEADING_1" || style.Fields != "namedStyleType" {
		t.Errorf("Incorrect heading style %+v", style)
	}

	if style := rq.Requests[2].UpdateParagraphStyle; style.ParagraphStyle.BorderBottom == nil || style.Fields != "borderBottom" {
		t.Errorf("Incorrect horizontal rule style %+v", style)
	}
}

func TestBodyWithoutBlocks(t *testing.T) {
	if rq := body(document.Document{Title: "empty"}); len(rq.Requests) != 0 {
		t.Errorf("Expected no requests for empty document, got %v", len(rq.Requests))
	}
}

func TestLengthCountsUTF16(t *testing.T) {
	tests := map[string]int64{
		"":        0,
		"abc":     3,
		"Ünïcode": 7,
		"🔧 fix":   5,
	}

	for s, expected := range tests {
		if n := length(s); n != expected {
			t.Errorf("Incorrect UTF-16 length for %q - expected:%v, got:%v", s, expected, n)
		}
	}
}

func TestDocumentURL(t *testing.T) {
	expected := "https://docs.google.com/document/d/1xyz/edit"
	if url := DocumentURL("1xyz"); url != expected {
		t.Errorf("Incorrect document URL\n   expected: %v\n   got:      %v\n", expected, url)
	}
}

func TestDocumentsCreate(t *testing.T) {
	requests := []string{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		requests = append(requests, rq.Method+" "+rq.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"documentId":"d1"}`))
	}))

	defer srv.Close()

	service, err := docs.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("Error creating Docs service (%v)", err)
	}

	doc := document.Document{
		Title:  "Machine M-17 - Generated Report",
		Blocks: []document.Block{{Kind: document.Paragraph, Style: document.Heading1, Text: "Machine Number: M-17"}},
	}

	ref, err := NewDocuments(service, nil, "").Create(context.Background(), doc)
	if err != nil {
		t.Fatalf("Unexpected error creating document (%v)", err)
	}

	expected := document.Ref{ID: "d1", URL: "https://docs.google.com/document/d/d1/edit"}
	if ref != expected {
		t.Errorf("Incorrect document reference\n   expected: %v\n   got:      %v\n", expected, ref)
	}

	if len(requests) != 2 || !strings.HasSuffix(requests[0], "/documents") || !strings.HasSuffix(requests[1], "/documents/d1:batchUpdate") {
		t.Errorf("Incorrect requests %v", requests)
	}
}
