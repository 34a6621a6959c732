package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ProductID string

// NewProductID generates a new unique ProductID
func NewProductID() ProductID {
	return ProductID(uuid.New().String())
}

type DocumentID string

// NewDocumentID generates a new unique DocumentID
func NewDocumentID() DocumentID {
	return DocumentID(uuid.New().String())
}

type ResourceID string

// NewResourceID generates a new unique ResourceID
func NewResourceID() ResourceID {
	return ResourceID(uuid.New().String())
}

type ChangelogID string

// NewChangelogID generates a new unique ChangelogID
func NewChangelogID() ChangelogID {
	return ChangelogID(uuid.New().String())
}

type VideoID string

// NewVideoID generates a new unique VideoID
func NewVideoID() VideoID {
	return VideoID(uuid.New().String())
}

type PublishStatus string

const (
	StatusDraft     PublishStatus = "draft"
	StatusPublished PublishStatus = "published"
)

// Product partitions documents, resources, changelogs and videos into
// isolated scopes for search and context assembly.
type Product struct {
	ID          ProductID `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Category    string    `yaml:"category"`
	CreatedAt   time.Time `yaml:"created_at"`
}

// Block is a single node of rich document content. Bodies are stored as
// block trees, so substring matching over them requires flattening first.
type Block struct {
	Type     string  `yaml:"type" json:"type"`
	Text     string  `yaml:"text" json:"text"`
	Children []Block `yaml:"children,omitempty" json:"children,omitempty"`
}

// FlattenBlocks serializes a block tree into one plain string for
// case-insensitive substring tests and context previews.
func FlattenBlocks(blocks []Block) string {
	var sb strings.Builder
	flattenInto(&sb, blocks)
	return strings.TrimSpace(sb.String())
}

func flattenInto(sb *strings.Builder, blocks []Block) {
	for _, b := range blocks {
		if b.Text != "" {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b.Text)
		}
		flattenInto(sb, b.Children)
	}
}

// Document is a help article. The body is rich content, not covered by
// indexed field matching.
type Document struct {
	ID        DocumentID    `yaml:"id"`
	ProductID ProductID     `yaml:"product_id"`
	Title     string        `yaml:"title"`
	Body      []Block       `yaml:"body"`
	Status    PublishStatus `yaml:"status"`
	CreatedAt time.Time     `yaml:"created_at"`
	UpdatedAt time.Time     `yaml:"updated_at"`

	// Denormalized owning-product fields, populated by store queries
	// that join the product. Not persisted.
	ProductName     string `yaml:"-" firestore:"-"`
	ProductCategory string `yaml:"-" firestore:"-"`
}

// BodyText returns the flattened body for substring matching
func (d *Document) BodyText() string {
	return FlattenBlocks(d.Body)
}

// Resource is a downloadable file attached to a product
type Resource struct {
	ID          ResourceID `yaml:"id"`
	ProductID   ProductID  `yaml:"product_id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Type        string     `yaml:"type"`
	URL         string     `yaml:"url"`
	CreatedAt   time.Time  `yaml:"created_at"`

	ProductName     string `yaml:"-" firestore:"-"`
	ProductCategory string `yaml:"-" firestore:"-"`
}

// Changelog is a release note entry for a product version
type Changelog struct {
	ID         ChangelogID   `yaml:"id"`
	ProductID  ProductID     `yaml:"product_id"`
	Title      string        `yaml:"title"`
	Version    string        `yaml:"version"`
	Body       []Block       `yaml:"body"`
	Status     PublishStatus `yaml:"status"`
	ReleasedAt time.Time     `yaml:"released_at"`

	ProductName     string `yaml:"-" firestore:"-"`
	ProductCategory string `yaml:"-" firestore:"-"`
}

// BodyText returns the flattened body for substring matching
func (c *Changelog) BodyText() string {
	return FlattenBlocks(c.Body)
}

// Video is a tutorial video entry, ordered within a product by SortIndex
type Video struct {
	ID        VideoID   `yaml:"id"`
	ProductID ProductID `yaml:"product_id"`
	Title     string    `yaml:"title"`
	Caption   string    `yaml:"caption"`
	URL       string    `yaml:"url"`
	SortIndex int       `yaml:"sort_index"`
	CreatedAt time.Time `yaml:"created_at"`

	ProductName     string `yaml:"-" firestore:"-"`
	ProductCategory string `yaml:"-" firestore:"-"`
}
