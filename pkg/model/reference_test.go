package model_test

import (
	"testing"

	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestReferenceTagString(t *testing.T) {
	tag := model.ReferenceTag{
		Kind:      model.RefKindArticle,
		ProductID: "P1",
		ItemID:    "D1",
	}
	gt.Equal(t, tag.String(), "[article:P1:D1]")
}

func TestParseReferenceTag(t *testing.T) {
	tag, err := model.ParseReferenceTag("[video:P1:V1]")
	gt.NoError(t, err)
	gt.Equal(t, tag.Kind, model.RefKindVideo)
	gt.Equal(t, tag.ProductID, model.ProductID("P1"))
	gt.Equal(t, tag.ItemID, "V1")
}

func TestParseReferenceTagInvalid(t *testing.T) {
	testCases := []string{
		"",
		"[article:P1]",
		"[article:P1:D1:extra]",
		"[unknown:P1:D1]",
		"article:P1:D1",
		"[article:P1:D1] trailing",
	}

	for _, tc := range testCases {
		t.Run(tc, func(t *testing.T) {
			_, err := model.ParseReferenceTag(tc)
			gt.Error(t, err)
		})
	}
}

func TestFindReferenceTags(t *testing.T) {
	text := "See [article:P1:D1] first, then watch [video:P1:V1]. Ignore [bogus:P1:X1]."
	tags := model.FindReferenceTags(text)
	gt.Equal(t, len(tags), 2)
	gt.Equal(t, tags[0].Kind, model.RefKindArticle)
	gt.Equal(t, tags[0].ItemID, "D1")
	gt.Equal(t, tags[1].Kind, model.RefKindVideo)
	gt.Equal(t, tags[1].ItemID, "V1")
}

func TestListingAllows(t *testing.T) {
	listing := &model.ReferenceListing{
		ProductID: "P1",
		Documents: []model.DocumentRef{{ID: "D1", Title: "Setup"}},
		Resources: []model.ResourceRef{{ID: "R1", Title: "Manual"}},
		Videos:    []model.VideoRef{{ID: "V1", Title: "Account Setup"}},
	}

	gt.True(t, listing.Allows(model.ReferenceTag{Kind: model.RefKindArticle, ProductID: "P1", ItemID: "D1"}))
	gt.True(t, listing.Allows(model.ReferenceTag{Kind: model.RefKindResource, ProductID: "P1", ItemID: "R1"}))
	gt.True(t, listing.Allows(model.ReferenceTag{Kind: model.RefKindVideo, ProductID: "P1", ItemID: "V1"}))

	// ID not in the listing
	gt.False(t, listing.Allows(model.ReferenceTag{Kind: model.RefKindArticle, ProductID: "P1", ItemID: "D2"}))
	// Wrong kind for the ID
	gt.False(t, listing.Allows(model.ReferenceTag{Kind: model.RefKindVideo, ProductID: "P1", ItemID: "D1"}))
	// Wrong product scope
	gt.False(t, listing.Allows(model.ReferenceTag{Kind: model.RefKindArticle, ProductID: "P2", ItemID: "D1"}))
}

func TestListingAllowsNil(t *testing.T) {
	var listing *model.ReferenceListing
	gt.False(t, listing.Allows(model.ReferenceTag{Kind: model.RefKindArticle, ProductID: "P1", ItemID: "D1"}))
}
