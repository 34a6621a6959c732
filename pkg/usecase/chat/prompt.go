package chat

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/m-mizutani/faro/pkg/model"
)

//go:embed prompt/grounding.md
var groundingPromptRaw string

//go:embed prompt/no_product.md
var noProductPromptRaw string

// compileDirective wraps the reference listing and the grounding rules
// into the single system directive for the completion call. A nil
// listing compiles to the ask-for-a-product directive instead.
func compileDirective(listing *model.ReferenceListing) string {
	if listing == nil {
		return noProductPromptRaw
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are the support assistant for the %q help center product.\n", listing.ProductName)
	fmt.Fprintf(&sb, "Product name: %s\n", listing.ProductName)
	fmt.Fprintf(&sb, "Product ID: %s\n", listing.ProductID)
	if listing.ProductDescription != "" {
		fmt.Fprintf(&sb, "Product description: %s\n", listing.ProductDescription)
	}
	sb.WriteString("\nThe complete content listing for this product follows. It is the only content you may reference.\n")

	sb.WriteString("\n## Documents\n")
	if len(listing.Documents) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, ref := range listing.Documents {
		fmt.Fprintf(&sb, "- TITLE: %q | ARTICLE_ID: %s | PREVIEW: %s\n", ref.Title, ref.ID, ref.Preview)
	}

	sb.WriteString("\n## Resources\n")
	if len(listing.Resources) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, ref := range listing.Resources {
		fmt.Fprintf(&sb, "- TITLE: %q | RESOURCE_ID: %s | TYPE: %s | DESCRIPTION: %s\n", ref.Title, ref.ID, ref.Type, ref.Description)
	}

	sb.WriteString("\n## Videos\n")
	if len(listing.Videos) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, ref := range listing.Videos {
		fmt.Fprintf(&sb, "- TITLE: %q | VIDEO_ID: %s | CAPTION: %s\n", ref.Title, ref.ID, ref.Caption)
	}

	sb.WriteString("\n")
	sb.WriteString(strings.ReplaceAll(groundingPromptRaw, "{{PRODUCT_ID}}", string(listing.ProductID)))

	return sb.String()
}

// CompileDirectiveForTest exposes compileDirective
func CompileDirectiveForTest(listing *model.ReferenceListing) string {
	return compileDirective(listing)
}
