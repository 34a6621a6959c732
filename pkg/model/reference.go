package model

import (
	"fmt"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var ErrInvalidReferenceTag = goerr.New("invalid reference tag")

// RefKind is the closed set of reference tag kinds the completion model
// may emit
type RefKind string

const (
	RefKindArticle  RefKind = "article"
	RefKindResource RefKind = "resource"
	RefKindVideo    RefKind = "video"
)

// ReferenceTag is a bracket token embedded in generated text that points
// to one content item: [kind:productId:itemId]
type ReferenceTag struct {
	Kind      RefKind
	ProductID ProductID
	ItemID    string
}

func (t ReferenceTag) String() string {
	return fmt.Sprintf("[%s:%s:%s]", t.Kind, t.ProductID, t.ItemID)
}

var refTagPattern = regexp.MustCompile(`\[(article|resource|video):([^:\[\]\s]+):([^:\[\]\s]+)\]`)

// ParseReferenceTag parses a single bracket token
func ParseReferenceTag(s string) (*ReferenceTag, error) {
	m := refTagPattern.FindStringSubmatch(s)
	if m == nil || m[0] != s {
		return nil, goerr.Wrap(ErrInvalidReferenceTag, "tag does not match grammar", goerr.Value("tag", s))
	}
	return &ReferenceTag{
		Kind:      RefKind(m[1]),
		ProductID: ProductID(m[2]),
		ItemID:    m[3],
	}, nil
}

// FindReferenceTags extracts all well-formed reference tags from a
// generated response text, in order of appearance
func FindReferenceTags(text string) []ReferenceTag {
	var tags []ReferenceTag
	for _, m := range refTagPattern.FindAllStringSubmatch(text, -1) {
		tags = append(tags, ReferenceTag{
			Kind:      RefKind(m[1]),
			ProductID: ProductID(m[2]),
			ItemID:    m[3],
		})
	}
	return tags
}

// DocumentRef is one enumerated document entry of a reference listing
type DocumentRef struct {
	ID      DocumentID
	Title   string
	Preview string
}

// ResourceRef is one enumerated resource entry of a reference listing
type ResourceRef struct {
	ID          ResourceID
	Title       string
	Description string
	Type        string
}

// VideoRef is one enumerated video entry of a reference listing
type VideoRef struct {
	ID      VideoID
	Title   string
	Caption string
}

// ReferenceListing is the per-product snapshot the grounding protocol is
// allowed to reference. Every ID is copied verbatim from the content
// store; the listing is rebuilt fully on every chat turn.
type ReferenceListing struct {
	ProductID          ProductID
	ProductName        string
	ProductDescription string

	Documents []DocumentRef
	Resources []ResourceRef
	Videos    []VideoRef
}

// Allows reports whether a tag is grounded in this listing. A consumer
// should degrade ungrounded tags to plain text instead of linkifying.
func (x *ReferenceListing) Allows(tag ReferenceTag) bool {
	if x == nil || tag.ProductID != x.ProductID {
		return false
	}

	switch tag.Kind {
	case RefKindArticle:
		for _, ref := range x.Documents {
			if string(ref.ID) == tag.ItemID {
				return true
			}
		}
	case RefKindResource:
		for _, ref := range x.Resources {
			if string(ref.ID) == tag.ItemID {
				return true
			}
		}
	case RefKindVideo:
		for _, ref := range x.Videos {
			if string(ref.ID) == tag.ItemID {
				return true
			}
		}
	}

	return false
}
