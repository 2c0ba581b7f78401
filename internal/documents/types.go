package documents

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-markitup/internal/fields"
	"github.com/goliatone/go-markitup/markup"
)

// Table is the storage table for markup documents.
const Table = "markup_documents"

// BodyField is the markup field carried by every document.
const BodyField = "body"

// Document is a record owning one markup field. The raw text and rendered
// HTML are stored in independent columns; Body is the in-memory value kept
// in sync with them by the service.
type Document struct {
	bun.BaseModel `bun:"table:markup_documents,alias:md"`

	ID           uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug         string    `bun:"slug,notnull,unique" json:"slug"`
	Title        string    `bun:"title,notnull" json:"title"`
	BodyRaw      string    `bun:"body,notnull" json:"body"`
	BodyRendered string    `bun:"_body_rendered,notnull" json:"_body_rendered"`
	CreatedAt    time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Body *markup.Value `bun:"-" json:"-"`
}

// Hydrate rebuilds Body from the stored columns. It never renders.
func (d *Document) Hydrate(def *fields.Definition) error {
	value, err := def.Load(BodyField, d.BodyRaw, d.BodyRendered)
	if err != nil {
		return err
	}
	d.Body = value
	return nil
}

// Sync copies Body back into the storage columns.
func (d *Document) Sync() {
	if d.Body == nil {
		return
	}
	d.BodyRaw = d.Body.Raw()
	d.BodyRendered = d.Body.Rendered().String()
}

// ListOptions pages through documents ordered by slug.
type ListOptions struct {
	Limit  int
	Offset int
}

// NewDefinition declares the document record. defaultFormatter and opts come
// from the editor configuration; an empty name keeps fields.DefaultFormatter.
func NewDefinition(resolver fields.FormatterResolver, formatter string, opts markup.Options) (*fields.Definition, error) {
	return fields.NewBuilder(Table).
		DefaultFormatter(formatter, opts).
		Text("slug", fields.Unique(), fields.Required()).
		Text("title").
		Markup(BodyField).
		Timestamp("created_at").
		Timestamp("updated_at").
		Build(resolver)
}

func cloneDocument(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	cloned := *doc
	cloned.Body = nil
	return &cloned
}
