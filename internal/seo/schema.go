package seo

const schemaContext = "https://schema.org"

// Schema is one JSON-LD document. Builders return a fresh value on every call.
type Schema map[string]any

// One wraps a lone schema so it can be passed where a list is expected.
func One(s Schema) []Schema {
	if s == nil {
		return nil
	}
	return []Schema{s}
}

// WebPageInput describes a single page.
type WebPageInput struct {
	Title       string
	Description string
	URL         string
}

// WebPage returns a schema.org WebPage payload.
func WebPage(in WebPageInput) Schema {
	return Schema{
		"@context":    schemaContext,
		"@type":       "WebPage",
		"name":        in.Title,
		"description": in.Description,
		"url":         in.URL,
	}
}

// BreadcrumbItem maps a crumb name to its absolute URL.
type BreadcrumbItem struct {
	Name string
	URL  string
}

// BreadcrumbList builds schema.org BreadcrumbList. Positions are 1-based and follow input order.
func BreadcrumbList(items []BreadcrumbItem) Schema {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.URL,
		})
	}
	return Schema{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// FAQItem is one question/answer pair.
type FAQItem struct {
	Question string
	Answer   string
}

// FAQPage builds schema.org FAQPage with questions in input order.
func FAQPage(items []FAQItem) Schema {
	entities := make([]map[string]any, 0, len(items))
	for _, it := range items {
		entities = append(entities, map[string]any{
			"@type": "Question",
			"name":  it.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  it.Answer,
			},
		})
	}
	return Schema{
		"@context":   schemaContext,
		"@type":      "FAQPage",
		"mainEntity": entities,
	}
}

// Address is a postal address.
type Address struct {
	Street     string
	Locality   string
	Region     string
	PostalCode string
	Country    string
}

// Geo is a latitude/longitude pair. A zero value is omitted.
type Geo struct {
	Latitude  float64
	Longitude float64
}

// Business is the firm identity rendered by LocalBusiness.
type Business struct {
	Name         string
	URL          string
	Telephone    string
	Email        string
	Logo         string
	Image        string
	PriceRange   string
	Address      Address
	Geo          Geo
	OpeningHours []string
	AreaServed   []string
}

// LocalBusiness returns the firm's LegalService/LocalBusiness schema. It takes no per-page input;
// the same Business always yields the same payload.
func LocalBusiness(b Business) Schema {
	m := Schema{
		"@context": schemaContext,
		"@type":    []string{"LegalService", "LocalBusiness"},
		"name":     b.Name,
	}
	if b.URL != "" {
		m["url"] = b.URL
		m["@id"] = b.URL + "#business"
	}
	if b.Telephone != "" {
		m["telephone"] = b.Telephone
	}
	if b.Email != "" {
		m["email"] = b.Email
	}
	if b.Logo != "" {
		m["logo"] = b.Logo
	}
	if b.Image != "" {
		m["image"] = b.Image
	}
	if b.PriceRange != "" {
		m["priceRange"] = b.PriceRange
	}
	if b.Address != (Address{}) {
		m["address"] = map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   b.Address.Street,
			"addressLocality": b.Address.Locality,
			"addressRegion":   b.Address.Region,
			"postalCode":      b.Address.PostalCode,
			"addressCountry":  b.Address.Country,
		}
	}
	if b.Geo != (Geo{}) {
		m["geo"] = map[string]any{
			"@type":     "GeoCoordinates",
			"latitude":  b.Geo.Latitude,
			"longitude": b.Geo.Longitude,
		}
	}
	if len(b.OpeningHours) > 0 {
		m["openingHours"] = append([]string(nil), b.OpeningHours...)
	}
	if len(b.AreaServed) > 0 {
		m["areaServed"] = append([]string(nil), b.AreaServed...)
	}
	return m
}

// ServiceInput describes one legal service offering.
type ServiceInput struct {
	Name        string
	Description string
	ServiceType string
	URL         string
	Provider    string
}

// Service returns a schema.org Service payload.
func Service(in ServiceInput) Schema {
	m := Schema{
		"@context":    schemaContext,
		"@type":       "Service",
		"name":        in.Name,
		"description": in.Description,
		"serviceType": in.ServiceType,
		"url":         in.URL,
	}
	if in.Provider != "" {
		m["provider"] = map[string]any{
			"@type": "LegalService",
			"name":  in.Provider,
		}
	}
	return m
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) Schema {
	m := Schema{
		"@context": schemaContext,
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url string) Schema {
	m := Schema{
		"@context": schemaContext,
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	return m
}
