package notion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jomei/notionapi"

	"github.com/scipunch/newsbrief/archive"
)

// Notion rejects text objects longer than this.
const maxTextLen = 2000

// PageCreator is the part of the Notion page API the writer needs.
type PageCreator interface {
	Create(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
}

// Properties names the database columns records are written into.
type Properties struct {
	Query   string
	Summary string
	Date    string
	Link    string
}

// Writer adds one database page per archived record.
type Writer struct {
	pages      PageCreator
	databaseID notionapi.DatabaseID
	props      Properties
}

// New creates a writer backed by the official Notion API client.
func New(token, databaseID string, props Properties) (*Writer, error) {
	if token == "" || databaseID == "" {
		return nil, errors.New("notion token and database id must be set")
	}
	client := notionapi.NewClient(notionapi.Token(token))
	return NewWithCreator(client.Page, databaseID, props), nil
}

func NewWithCreator(pages PageCreator, databaseID string, props Properties) *Writer {
	return &Writer{
		pages:      pages,
		databaseID: notionapi.DatabaseID(databaseID),
		props:      props,
	}
}

func (w *Writer) Name() string {
	return "notion"
}

func (w *Writer) Write(ctx context.Context, r archive.Record) error {
	page, err := w.pages.Create(ctx, w.request(r))
	if err != nil {
		return fmt.Errorf("failed to create notion page with %w", err)
	}
	slog.Debug("notion page created", "id", page.ID, "query", r.Query)
	return nil
}

func (w *Writer) request(r archive.Record) *notionapi.PageCreateRequest {
	date := notionapi.Date(r.Timestamp)

	props := notionapi.Properties{
		w.props.Query: notionapi.TitleProperty{
			Title: richText(r.Query),
		},
		w.props.Summary: notionapi.RichTextProperty{
			RichText: richText(r.Summary),
		},
		w.props.Date: notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &date},
		},
	}
	// Notion refuses an empty URL value
	if r.SourceLink != "" && w.props.Link != "" {
		props[w.props.Link] = notionapi.URLProperty{URL: r.SourceLink}
	}

	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: w.databaseID,
		},
		Properties: props,
	}
}

// richText splits s into text objects of at most maxTextLen characters.
func richText(s string) []notionapi.RichText {
	runes := []rune(s)
	if len(runes) == 0 {
		return []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: ""}}}
	}

	var out []notionapi.RichText
	for start := 0; start < len(runes); start += maxTextLen {
		end := min(start+maxTextLen, len(runes))
		out = append(out, notionapi.RichText{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{Content: string(runes[start:end])},
		})
	}
	return out
}
