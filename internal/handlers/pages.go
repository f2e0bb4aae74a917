package handlers

import (
	"fmt"
	"html/template"
	"net/http"

	"tradelaw.us/web/internal/config"
	"tradelaw.us/web/internal/content"
	"tradelaw.us/web/internal/format"
	"tradelaw.us/web/internal/nav"
	"tradelaw.us/web/internal/seo"
)

// linkGridSize caps the internal link grid on each page.
const linkGridSize = 6

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
	GTMContainerID   string // e.g. GTM-XXXXXXX
}

// Contact is the phone/email block shown in the header and CTA footer.
type Contact struct {
	PhoneDisplay string
	PhoneHref    template.URL // trusted tel: URL
	Email        string
}

// PageData is the view model for every page using the shared layout.
type PageData struct {
	Title     string
	SiteName  string
	Head      template.HTML
	Analytics Analytics
	Contact   Contact

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Links       []nav.RenderedItem

	Page    content.Page
	Updated string
	Status  int
}

// Builder assembles view models from the site identity and the landing page library.
type Builder struct {
	Site      config.SiteConfig
	Analytics config.AnalyticsConfig
	Library   *content.Library
}

// Meta computes the head configuration of page.
func (b Builder) Meta(page content.Page) seo.PageMeta {
	canonical := seo.CanonicalURL(b.Site.BaseURL, page.Slug)
	robots := page.Robots
	if robots == "" {
		robots = "index, follow"
	}
	image := page.OGImage
	if image == "" {
		image = b.Site.OGImage
	}

	schemas := []seo.Schema{
		seo.WebPage(seo.WebPageInput{
			Title:       page.Title,
			Description: page.Description,
			URL:         canonical,
		}),
	}
	if page.Kind == content.KindHome {
		schemas = append(schemas,
			seo.WebSite(b.Site.Name, canonical),
			seo.Organization(b.Site.Name, canonical, b.Site.Absolute(b.Site.Logo)),
		)
	}
	if crumbs := b.breadcrumbs(page.Path()); len(crumbs) > 1 {
		items := make([]seo.BreadcrumbItem, 0, len(crumbs))
		for _, c := range crumbs {
			items = append(items, seo.BreadcrumbItem{Name: c.Label, URL: seo.CanonicalURL(b.Site.BaseURL, c.Href)})
		}
		schemas = append(schemas, seo.BreadcrumbList(items))
	}
	schemas = append(schemas, seo.LocalBusiness(b.Site.Business()))
	for _, svc := range page.Services {
		schemas = append(schemas, seo.Service(seo.ServiceInput{
			Name:        svc.Name,
			Description: svc.Description,
			ServiceType: svc.ServiceType,
			URL:         canonical,
			Provider:    b.Site.Name,
		}))
	}
	if len(page.FAQs) > 0 {
		faqs := make([]seo.FAQItem, 0, len(page.FAQs))
		for _, f := range page.FAQs {
			faqs = append(faqs, seo.FAQItem{Question: f.Question, Answer: f.Answer})
		}
		schemas = append(schemas, seo.FAQPage(faqs))
	}

	return seo.PageMeta{
		Title:       page.Title,
		Description: page.Description,
		Canonical:   page.Slug,
		OGType:      "website",
		OGImage:     b.Site.Absolute(image),
		Keywords:    page.KeywordList(),
		Robots:      robots,
		Schema:      schemas,
	}
}

// Landing builds the view model of one landing page, head included.
func (b Builder) Landing(page content.Page) (PageData, error) {
	head, err := seo.RenderHead(b.Site.BaseURL, b.Meta(page))
	if err != nil {
		return PageData{}, fmt.Errorf("render head %s: %w", page.Path(), err)
	}
	vm := b.layout(page.Path())
	vm.Title = page.Title
	vm.Head = head
	vm.Page = page
	vm.Updated = format.Date(page.UpdatedAt)
	vm.Breadcrumbs = b.breadcrumbs(page.Path())
	vm.Links = nav.Related(b.Library.LinkItems(page), page.Path(), linkGridSize)
	return vm, nil
}

// NotFoundMeta is the head configuration of the 404 page. It is excluded from indexing.
func (b Builder) NotFoundMeta(path string) seo.PageMeta {
	return seo.PageMeta{
		Title:     "Page not found | " + b.Site.Name,
		Canonical: path,
		Robots:    "noindex, follow",
	}
}

// NotFound builds the 404 view model.
func (b Builder) NotFound(path string) (PageData, error) {
	meta := b.NotFoundMeta(path)
	head, err := seo.RenderHead(b.Site.BaseURL, meta)
	if err != nil {
		return PageData{}, fmt.Errorf("render head 404: %w", err)
	}
	vm := b.layout(path)
	vm.Title = meta.Title
	vm.Head = head
	vm.Status = http.StatusNotFound
	vm.Page = content.Page{Heading: "Page not found"}
	vm.Links = nav.Related(b.Library.LinkItems(content.Page{Kind: content.KindCity}), path, linkGridSize)
	return vm, nil
}

func (b Builder) layout(path string) PageData {
	return PageData{
		SiteName: b.Site.Name,
		Analytics: Analytics{
			GA4MeasurementID: b.Analytics.GA4MeasurementID,
			GTMContainerID:   b.Analytics.GTMContainerID,
		},
		Contact: Contact{
			PhoneDisplay: phoneDisplay(b.Site),
			PhoneHref:    template.URL(format.TelHref(b.Site.PhoneTel)),
			Email:        b.Site.Email,
		},
		Path:   path,
		Nav:    nav.Build(b.Library.NavItems(), path),
		Status: http.StatusOK,
	}
}

func (b Builder) breadcrumbs(path string) []nav.Crumb {
	return nav.Breadcrumbs(path, b.Library.Labels())
}

func phoneDisplay(site config.SiteConfig) string {
	if site.PhoneDisplay != "" {
		return site.PhoneDisplay
	}
	return format.Phone(site.PhoneTel)
}
