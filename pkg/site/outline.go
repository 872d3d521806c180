package site

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-overlay/content"
)

// Outline renders doc as markdown in landing.sections order, for terminal
// previews and plain-text exports. Unknown sections are skipped.
func Outline(doc content.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Site.Name)
	if doc.Site.Tagline != "" {
		fmt.Fprintf(&b, "_%s_\n\n", doc.Site.Tagline)
	}

	for _, id := range doc.Landing.Sections {
		if _, ok := Blocks[id]; !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", heading(doc, id))
		switch id {
		case "hero":
			paragraph(&b, doc.Hero.Badge)
			paragraph(&b, doc.Hero.Subtitle)
			if doc.Hero.CTALabel != "" {
				fmt.Fprintf(&b, "[%s](%s)\n\n", doc.Hero.CTALabel, doc.Hero.CTAHref)
			}
		case "services":
			paragraph(&b, doc.Services.Subtitle)
			for _, item := range doc.Services.Items {
				fmt.Fprintf(&b, "### %s\n\n", item.Title)
				paragraph(&b, item.Description)
			}
		case "partnerships":
			paragraph(&b, doc.Partnerships.Subtitle)
			for _, partner := range doc.Partnerships.Partners {
				fmt.Fprintf(&b, "- [%s](%s)\n", partner.Name, partner.Href)
			}
			b.WriteString("\n")
		case "service-areas":
			paragraph(&b, doc.ServiceAreas.Subtitle)
			for _, area := range doc.ServiceAreas.Areas {
				fmt.Fprintf(&b, "- %s\n", area)
			}
			b.WriteString("\n")
		case "warehouse":
			paragraph(&b, doc.Warehouse.Address)
			paragraph(&b, doc.Warehouse.Hours)
		case "calendar":
			paragraph(&b, "**"+doc.Contact.Badge+"** "+doc.Contact.Phone)
			paragraph(&b, doc.Contact.Calendar.Subtitle)
		case "carousel":
			for _, slide := range doc.Carousel.Slides {
				fmt.Fprintf(&b, "- %s\n", slide.Caption)
			}
			b.WriteString("\n")
		}
	}

	paragraph(&b, "---")
	paragraph(&b, doc.Footer.About)
	paragraph(&b, doc.Footer.Copyright)
	return b.String()
}

func paragraph(b *strings.Builder, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	b.WriteString(text)
	b.WriteString("\n\n")
}
