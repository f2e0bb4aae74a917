package seo

import (
	"errors"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// ManagedAttr marks script elements created by an Injection.
	ManagedAttr = "data-managed"
	// ManagedValue is the ManagedAttr value for structured data scripts.
	ManagedValue = "structured-data"
	// OwnerAttr carries the id of the Injection that created a script.
	OwnerAttr = "data-owner"

	ldJSONType = "application/ld+json"
)

// ErrNoHead is returned when a document has no head element to mutate.
var ErrNoHead = errors.New("seo: document has no head element")

// Document is an HTML tree whose head is mutated by Mount and Inject.
// All access goes through the document lock, so several owners may share one Document.
type Document struct {
	mu   sync.Mutex
	root *html.Node
	head *html.Node
}

// NewDocument returns an empty <html><head></head><body></body></html> document.
func NewDocument() *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlEl := element(atom.Html)
	head := element(atom.Head)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(element(atom.Body))
	root.AppendChild(htmlEl)
	return &Document{root: root, head: head}
}

// ParseDocument parses an existing HTML document. Pre-existing head elements are left alone
// by every operation except the ones they are explicitly set through.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromNode(root)
}

// FromNode wraps an already parsed tree. It fails with ErrNoHead when no head element exists.
func FromNode(root *html.Node) (*Document, error) {
	head := findElement(root, atom.Head)
	if head == nil {
		return nil, ErrNoHead
	}
	return &Document{root: root, head: head}, nil
}

// Title returns the text of the head's title element.
func (d *Document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.head == nil {
		return ""
	}
	if t := childElement(d.head, atom.Title); t != nil {
		return textOf(t)
	}
	return ""
}

// SetTitle creates or overwrites the title element.
func (d *Document) SetTitle(title string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.head == nil {
		return ErrNoHead
	}
	t := childElement(d.head, atom.Title)
	if t == nil {
		t = element(atom.Title)
		d.head.AppendChild(t)
	}
	for c := t.FirstChild; c != nil; c = t.FirstChild {
		t.RemoveChild(c)
	}
	t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	return nil
}

// Meta returns the content of the meta tag whose name or property equals key.
func (d *Document) Meta(key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.head == nil {
		return "", false
	}
	if n := d.findMeta(key); n != nil {
		return attr(n, "content"), true
	}
	return "", false
}

// SetMeta creates or overwrites a meta tag. Open Graph keys use the property attribute,
// everything else uses name.
func (d *Document) SetMeta(key, content string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.head == nil {
		return ErrNoHead
	}
	n := d.findMeta(key)
	if n == nil {
		n = element(atom.Meta)
		n.Attr = append(n.Attr, html.Attribute{Key: metaKeyAttr(key), Val: key})
		d.head.AppendChild(n)
	}
	setAttr(n, "content", content)
	return nil
}

// Link returns the href of the first link element with the given rel.
func (d *Document) Link(rel string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.head == nil {
		return ""
	}
	if n := d.findLink(rel); n != nil {
		return attr(n, "href")
	}
	return ""
}

// SetLink creates or overwrites the link element with the given rel.
func (d *Document) SetLink(rel, href string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.head == nil {
		return ErrNoHead
	}
	n := d.findLink(rel)
	if n == nil {
		n = element(atom.Link)
		n.Attr = append(n.Attr, html.Attribute{Key: "rel", Val: rel})
		d.head.AppendChild(n)
	}
	setAttr(n, "href", href)
	return nil
}

// ManagedScripts returns the payloads of managed structured data scripts in document order.
// An empty owner matches every owner.
func (d *Document) ManagedScripts(owner string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.head == nil {
		return nil
	}
	var out []string
	for c := d.head.FirstChild; c != nil; c = c.NextSibling {
		if !isManaged(c) {
			continue
		}
		if owner != "" && attr(c, OwnerAttr) != owner {
			continue
		}
		out = append(out, textOf(c))
	}
	return out
}

// HeadLen returns the number of element children of head.
func (d *Document) HeadLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.head == nil {
		return 0
	}
	n := 0
	for c := d.head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			n++
		}
	}
	return n
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// RenderHead writes the head's children, one per line, without the head tags themselves.
func (d *Document) RenderHead(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.head == nil {
		return ErrNoHead
	}
	for c := d.head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if err := html.Render(w, c); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// replace removes old and appends one script per payload in a single critical section,
// so no reader ever sees both sets at once.
func (d *Document) replace(old []*html.Node, owner string, payloads []string) ([]*html.Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.head == nil {
		return nil, ErrNoHead
	}
	d.detach(old)
	nodes := make([]*html.Node, 0, len(payloads))
	for _, p := range payloads {
		n := element(atom.Script)
		n.Attr = []html.Attribute{
			{Key: "type", Val: ldJSONType},
			{Key: ManagedAttr, Val: ManagedValue},
			{Key: OwnerAttr, Val: owner},
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: p})
		d.head.AppendChild(n)
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (d *Document) remove(nodes []*html.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detach(nodes)
}

// detach removes nodes from wherever they currently live. Nodes already removed are skipped.
func (d *Document) detach(nodes []*html.Node) {
	for _, n := range nodes {
		if n != nil && n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func (d *Document) attached(nodes []*html.Node) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range nodes {
		if n.Parent != d.head {
			return false
		}
	}
	return true
}

func (d *Document) findMeta(key string) *html.Node {
	for c := d.head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Meta {
			continue
		}
		if attr(c, "name") == key || attr(c, "property") == key {
			return c
		}
	}
	return nil
}

func (d *Document) findLink(rel string) *html.Node {
	for c := d.head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Link && strings.EqualFold(attr(c, "rel"), rel) {
			return c
		}
	}
	return nil
}

func metaKeyAttr(key string) string {
	if strings.HasPrefix(key, "og:") {
		return "property"
	}
	return "name"
}

func isManaged(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Script && attr(n, ManagedAttr) == ManagedValue
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func childElement(parent *html.Node, a atom.Atom) *html.Node {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
