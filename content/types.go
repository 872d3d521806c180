// Package content defines the editable site document, the shipped base
// document, and the reconciliation of persisted overlays against that base.
package content

// Document is the full editable copy and light structure of the site.
type Document struct {
	SchemaVersion int          `json:"schemaVersion" yaml:"schemaVersion"`
	Site          Site         `json:"site" yaml:"site"`
	Navigation    []Link       `json:"navigation" yaml:"navigation"`
	Hero          Hero         `json:"hero" yaml:"hero"`
	Landing       Landing      `json:"landing" yaml:"landing"`
	Services      Services     `json:"services" yaml:"services"`
	Partnerships  Partnerships `json:"partnerships" yaml:"partnerships"`
	ServiceAreas  ServiceAreas `json:"serviceAreas" yaml:"serviceAreas"`
	Warehouse     Warehouse    `json:"warehouse" yaml:"warehouse"`
	Carousel      Carousel     `json:"carousel" yaml:"carousel"`
	Contact       Contact      `json:"contact" yaml:"contact"`
	Shop          Shop         `json:"shop" yaml:"shop"`
	Footer        Footer       `json:"footer" yaml:"footer"`
}

type Site struct {
	Name    string `json:"name" yaml:"name"`
	Tagline string `json:"tagline" yaml:"tagline"`
	Phone   string `json:"phone" yaml:"phone"`
	Email   string `json:"email" yaml:"email"`
}

type Link struct {
	Label string `json:"label" yaml:"label"`
	Href  string `json:"href" yaml:"href"`
}

type Hero struct {
	Badge    string `json:"badge" yaml:"badge"`
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
	CTALabel string `json:"ctaLabel" yaml:"ctaLabel"`
	CTAHref  string `json:"ctaHref" yaml:"ctaHref"`
	Image    string `json:"image" yaml:"image"`
}

// Landing holds the ordered section ids rendered on the landing page.
type Landing struct {
	Sections []string `json:"sections" yaml:"sections"`
}

type Services struct {
	Title    string    `json:"title" yaml:"title"`
	Subtitle string    `json:"subtitle" yaml:"subtitle"`
	Items    []Service `json:"items" yaml:"items"`
}

// Service is one card of the services grid. Description is markdown.
type Service struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
}

type Partnerships struct {
	Title    string    `json:"title" yaml:"title"`
	Subtitle string    `json:"subtitle" yaml:"subtitle"`
	Partners []Partner `json:"partners" yaml:"partners"`
}

type Partner struct {
	Name string `json:"name" yaml:"name"`
	Logo string `json:"logo" yaml:"logo"`
	Href string `json:"href" yaml:"href"`
}

type ServiceAreas struct {
	Title    string   `json:"title" yaml:"title"`
	Subtitle string   `json:"subtitle" yaml:"subtitle"`
	Areas    []string `json:"areas" yaml:"areas"`
}

type Warehouse struct {
	Title    string `json:"title" yaml:"title"`
	Address  string `json:"address" yaml:"address"`
	Hours    string `json:"hours" yaml:"hours"`
	MapEmbed string `json:"mapEmbed" yaml:"mapEmbed"`
}

type Carousel struct {
	Slides []Slide `json:"slides" yaml:"slides"`
}

type Slide struct {
	Image   string `json:"image" yaml:"image"`
	Caption string `json:"caption" yaml:"caption"`
}

type Contact struct {
	Badge    string   `json:"badge" yaml:"badge"`
	Title    string   `json:"title" yaml:"title"`
	Phone    string   `json:"phone" yaml:"phone"`
	Email    string   `json:"email" yaml:"email"`
	Calendar Calendar `json:"calendar" yaml:"calendar"`
}

type Calendar struct {
	Title      string `json:"title" yaml:"title"`
	Subtitle   string `json:"subtitle" yaml:"subtitle"`
	BookingURL string `json:"bookingUrl" yaml:"bookingUrl"`
}

// Shop holds the shop page copy and its ordered section ids.
type Shop struct {
	Title    string   `json:"title" yaml:"title"`
	Subtitle string   `json:"subtitle" yaml:"subtitle"`
	Sections []string `json:"sections" yaml:"sections"`
}

type Footer struct {
	About     string `json:"about" yaml:"about"`
	Copyright string `json:"copyright" yaml:"copyright"`
	Links     []Link `json:"links" yaml:"links"`
}
