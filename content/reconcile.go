package content

import "github.com/goliatone/go-overlay/layering"

// Reconcile merges a persisted overlay into base, section by section. Fields
// present in the overlay win, absent fields are backfilled from base, lists
// are replaced wholesale, and the landing and shop section id lists are
// pruned against the ids base still knows about. The result always carries
// base's schema version.
func Reconcile(base Document, persisted Patch) Document {
	out := Document{
		SchemaVersion: base.SchemaVersion,
		Site:          reconcileSite(base.Site, persisted.Site),
		Navigation:    layering.List(base.Navigation, persisted.Navigation),
		Hero:          reconcileHero(base.Hero, persisted.Hero),
		Landing:       reconcileLanding(base.Landing, persisted.Landing),
		Services:      reconcileServices(base.Services, persisted.Services),
		Partnerships:  reconcilePartnerships(base.Partnerships, persisted.Partnerships),
		ServiceAreas:  reconcileServiceAreas(base.ServiceAreas, persisted.ServiceAreas),
		Warehouse:     reconcileWarehouse(base.Warehouse, persisted.Warehouse),
		Carousel:      reconcileCarousel(base.Carousel, persisted.Carousel),
		Contact:       reconcileContact(base.Contact, persisted.Contact),
		Shop:          reconcileShop(base.Shop, persisted.Shop),
		Footer:        reconcileFooter(base.Footer, persisted.Footer),
	}
	return out
}

func reconcileSite(base Site, p *SitePatch) Site {
	if p == nil {
		return base
	}
	return Site{
		Name:    layering.String(base.Name, p.Name),
		Tagline: layering.String(base.Tagline, p.Tagline),
		Phone:   layering.String(base.Phone, p.Phone),
		Email:   layering.String(base.Email, p.Email),
	}
}

func reconcileHero(base Hero, p *HeroPatch) Hero {
	if p == nil {
		return base
	}
	return Hero{
		Badge:    layering.String(base.Badge, p.Badge),
		Title:    layering.String(base.Title, p.Title),
		Subtitle: layering.String(base.Subtitle, p.Subtitle),
		CTALabel: layering.String(base.CTALabel, p.CTALabel),
		CTAHref:  layering.String(base.CTAHref, p.CTAHref),
		Image:    layering.String(base.Image, p.Image),
	}
}

func reconcileLanding(base Landing, p *LandingPatch) Landing {
	if p == nil {
		return Landing{Sections: layering.List(base.Sections, nil)}
	}
	return Landing{Sections: layering.Prune(p.Sections, base.Sections, layering.Identity)}
}

func reconcileServices(base Services, p *ServicesPatch) Services {
	if p == nil {
		return Services{Title: base.Title, Subtitle: base.Subtitle, Items: layering.List(base.Items, nil)}
	}
	return Services{
		Title:    layering.String(base.Title, p.Title),
		Subtitle: layering.String(base.Subtitle, p.Subtitle),
		Items:    layering.List(base.Items, p.Items),
	}
}

func reconcilePartnerships(base Partnerships, p *PartnershipsPatch) Partnerships {
	if p == nil {
		return Partnerships{Title: base.Title, Subtitle: base.Subtitle, Partners: layering.List(base.Partners, nil)}
	}
	return Partnerships{
		Title:    layering.String(base.Title, p.Title),
		Subtitle: layering.String(base.Subtitle, p.Subtitle),
		Partners: layering.List(base.Partners, p.Partners),
	}
}

func reconcileServiceAreas(base ServiceAreas, p *ServiceAreasPatch) ServiceAreas {
	if p == nil {
		return ServiceAreas{Title: base.Title, Subtitle: base.Subtitle, Areas: layering.List(base.Areas, nil)}
	}
	return ServiceAreas{
		Title:    layering.String(base.Title, p.Title),
		Subtitle: layering.String(base.Subtitle, p.Subtitle),
		Areas:    layering.List(base.Areas, p.Areas),
	}
}

func reconcileWarehouse(base Warehouse, p *WarehousePatch) Warehouse {
	if p == nil {
		return base
	}
	return Warehouse{
		Title:    layering.String(base.Title, p.Title),
		Address:  layering.String(base.Address, p.Address),
		Hours:    layering.String(base.Hours, p.Hours),
		MapEmbed: layering.String(base.MapEmbed, p.MapEmbed),
	}
}

func reconcileCarousel(base Carousel, p *CarouselPatch) Carousel {
	if p == nil {
		return Carousel{Slides: layering.List(base.Slides, nil)}
	}
	return Carousel{Slides: layering.List(base.Slides, p.Slides)}
}

func reconcileContact(base Contact, p *ContactPatch) Contact {
	if p == nil {
		return base
	}
	return Contact{
		Badge:    layering.String(base.Badge, p.Badge),
		Title:    layering.String(base.Title, p.Title),
		Phone:    layering.String(base.Phone, p.Phone),
		Email:    layering.String(base.Email, p.Email),
		Calendar: reconcileCalendar(base.Calendar, p.Calendar),
	}
}

func reconcileCalendar(base Calendar, p *CalendarPatch) Calendar {
	if p == nil {
		return base
	}
	return Calendar{
		Title:      layering.String(base.Title, p.Title),
		Subtitle:   layering.String(base.Subtitle, p.Subtitle),
		BookingURL: layering.String(base.BookingURL, p.BookingURL),
	}
}

func reconcileShop(base Shop, p *ShopPatch) Shop {
	if p == nil {
		return Shop{Title: base.Title, Subtitle: base.Subtitle, Sections: layering.List(base.Sections, nil)}
	}
	return Shop{
		Title:    layering.String(base.Title, p.Title),
		Subtitle: layering.String(base.Subtitle, p.Subtitle),
		Sections: layering.Prune(p.Sections, base.Sections, layering.Identity),
	}
}

func reconcileFooter(base Footer, p *FooterPatch) Footer {
	if p == nil {
		return Footer{About: base.About, Copyright: base.Copyright, Links: layering.List(base.Links, nil)}
	}
	return Footer{
		About:     layering.String(base.About, p.About),
		Copyright: layering.String(base.Copyright, p.Copyright),
		Links:     layering.List(base.Links, p.Links),
	}
}

// PatchOf converts a full document into an overlay carrying every field.
// Reconcile(base, PatchOf(base)) equals base.
func PatchOf(doc Document) Patch {
	doc = doc.Clone()
	version := doc.SchemaVersion
	return Patch{
		SchemaVersion: &version,
		Site:          &SitePatch{Name: &doc.Site.Name, Tagline: &doc.Site.Tagline, Phone: &doc.Site.Phone, Email: &doc.Site.Email},
		Navigation:    doc.Navigation,
		Hero: &HeroPatch{
			Badge: &doc.Hero.Badge, Title: &doc.Hero.Title, Subtitle: &doc.Hero.Subtitle,
			CTALabel: &doc.Hero.CTALabel, CTAHref: &doc.Hero.CTAHref, Image: &doc.Hero.Image,
		},
		Landing:      &LandingPatch{Sections: doc.Landing.Sections},
		Services:     &ServicesPatch{Title: &doc.Services.Title, Subtitle: &doc.Services.Subtitle, Items: doc.Services.Items},
		Partnerships: &PartnershipsPatch{Title: &doc.Partnerships.Title, Subtitle: &doc.Partnerships.Subtitle, Partners: doc.Partnerships.Partners},
		ServiceAreas: &ServiceAreasPatch{Title: &doc.ServiceAreas.Title, Subtitle: &doc.ServiceAreas.Subtitle, Areas: doc.ServiceAreas.Areas},
		Warehouse: &WarehousePatch{
			Title: &doc.Warehouse.Title, Address: &doc.Warehouse.Address,
			Hours: &doc.Warehouse.Hours, MapEmbed: &doc.Warehouse.MapEmbed,
		},
		Carousel: &CarouselPatch{Slides: doc.Carousel.Slides},
		Contact: &ContactPatch{
			Badge: &doc.Contact.Badge, Title: &doc.Contact.Title, Phone: &doc.Contact.Phone, Email: &doc.Contact.Email,
			Calendar: &CalendarPatch{Title: &doc.Contact.Calendar.Title, Subtitle: &doc.Contact.Calendar.Subtitle, BookingURL: &doc.Contact.Calendar.BookingURL},
		},
		Shop:   &ShopPatch{Title: &doc.Shop.Title, Subtitle: &doc.Shop.Subtitle, Sections: doc.Shop.Sections},
		Footer: &FooterPatch{About: &doc.Footer.About, Copyright: &doc.Footer.Copyright, Links: doc.Footer.Links},
	}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	return layering.Clone(d)
}
