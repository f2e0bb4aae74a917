package seo

import (
	"bytes"
	"html/template"
	"strings"
)

// RenderHead computes the head markup for one page. The result depends only on baseURL
// and meta, which makes it suitable for pre-rendered output.
func RenderHead(baseURL string, meta PageMeta) (template.HTML, error) {
	doc := NewDocument()
	if _, err := Mount(doc, baseURL, meta, WithOwner(ownerFor(meta.Canonical))); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := doc.RenderHead(&buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func ownerFor(canonical string) string {
	p := strings.Trim(canonical, "/")
	if p == "" {
		return "page:home"
	}
	return "page:" + p
}
