package content

// Patch is the decoded shape of a persisted overlay. Nil pointers and nil
// slices mean the overlay did not carry the field.
type Patch struct {
	SchemaVersion *int               `json:"schemaVersion"`
	Site          *SitePatch         `json:"site"`
	Navigation    []Link             `json:"navigation"`
	Hero          *HeroPatch         `json:"hero"`
	Landing       *LandingPatch      `json:"landing"`
	Services      *ServicesPatch     `json:"services"`
	Partnerships  *PartnershipsPatch `json:"partnerships"`
	ServiceAreas  *ServiceAreasPatch `json:"serviceAreas"`
	Warehouse     *WarehousePatch    `json:"warehouse"`
	Carousel      *CarouselPatch     `json:"carousel"`
	Contact       *ContactPatch      `json:"contact"`
	Shop          *ShopPatch         `json:"shop"`
	Footer        *FooterPatch       `json:"footer"`
}

type SitePatch struct {
	Name    *string `json:"name"`
	Tagline *string `json:"tagline"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

type HeroPatch struct {
	Badge    *string `json:"badge"`
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
	CTALabel *string `json:"ctaLabel"`
	CTAHref  *string `json:"ctaHref"`
	Image    *string `json:"image"`
}

type LandingPatch struct {
	Sections []string `json:"sections"`
}

type ServicesPatch struct {
	Title    *string   `json:"title"`
	Subtitle *string   `json:"subtitle"`
	Items    []Service `json:"items"`
}

type PartnershipsPatch struct {
	Title    *string   `json:"title"`
	Subtitle *string   `json:"subtitle"`
	Partners []Partner `json:"partners"`
}

type ServiceAreasPatch struct {
	Title    *string  `json:"title"`
	Subtitle *string  `json:"subtitle"`
	Areas    []string `json:"areas"`
}

type WarehousePatch struct {
	Title    *string `json:"title"`
	Address  *string `json:"address"`
	Hours    *string `json:"hours"`
	MapEmbed *string `json:"mapEmbed"`
}

type CarouselPatch struct {
	Slides []Slide `json:"slides"`
}

type ContactPatch struct {
	Badge    *string        `json:"badge"`
	Title    *string        `json:"title"`
	Phone    *string        `json:"phone"`
	Email    *string        `json:"email"`
	Calendar *CalendarPatch `json:"calendar"`
}

type CalendarPatch struct {
	Title      *string `json:"title"`
	Subtitle   *string `json:"subtitle"`
	BookingURL *string `json:"bookingUrl"`
}

type ShopPatch struct {
	Title    *string  `json:"title"`
	Subtitle *string  `json:"subtitle"`
	Sections []string `json:"sections"`
}

type FooterPatch struct {
	About     *string `json:"about"`
	Copyright *string `json:"copyright"`
	Links     []Link  `json:"links"`
}
