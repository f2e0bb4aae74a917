package seo

import (
	"fmt"
	"slices"

	"github.com/oklog/ulid/v2"
	"golang.org/x/net/html"
)

// Injection owns the structured data scripts it appended to a Document.
// The zero value is not usable; construct with Inject.
type Injection struct {
	doc      *Document
	owner    string
	nodes    []*html.Node
	payloads []string
}

// InjectOption customises an Injection.
type InjectOption func(*Injection)

// WithOwner sets the owner marker written to every script. Defaults to a fresh ULID.
func WithOwner(id string) InjectOption {
	return func(i *Injection) {
		if id != "" {
			i.owner = id
		}
	}
}

// Inject serializes each schema and appends one managed script per schema to the head,
// in input order. Nil schemas are skipped.
func Inject(doc *Document, schemas []Schema, opts ...InjectOption) (*Injection, error) {
	if doc == nil {
		return nil, ErrNoHead
	}
	inj := &Injection{doc: doc}
	for _, opt := range opts {
		if opt != nil {
			opt(inj)
		}
	}
	if inj.owner == "" {
		inj.owner = ulid.Make().String()
	}
	if err := inj.Update(schemas); err != nil {
		return nil, err
	}
	return inj, nil
}

// Owner returns the marker carried by this injection's scripts.
func (i *Injection) Owner() string {
	if i == nil {
		return ""
	}
	return i.owner
}

// Len returns the number of scripts currently owned.
func (i *Injection) Len() int {
	if i == nil {
		return 0
	}
	return len(i.nodes)
}

// Update reconciles the owned scripts with schemas. When the serialized payloads match the
// current ones and every owned node is still attached, the document is not touched.
// Otherwise the previous set is removed and the new set appended atomically.
func (i *Injection) Update(schemas []Schema) error {
	payloads, err := encodeSchemas(schemas)
	if err != nil {
		return err
	}
	if i.nodes != nil && slices.Equal(payloads, i.payloads) && i.doc.attached(i.nodes) {
		return nil
	}
	nodes, err := i.doc.replace(i.nodes, i.owner, payloads)
	if err != nil {
		return err
	}
	i.nodes = nodes
	i.payloads = payloads
	return nil
}

// Release removes every script this injection created. Calling it again is a no-op.
func (i *Injection) Release() {
	if i == nil || i.doc == nil {
		return
	}
	i.doc.remove(i.nodes)
	i.nodes = nil
	i.payloads = nil
}

func encodeSchemas(schemas []Schema) ([]string, error) {
	out := make([]string, 0, len(schemas))
	for idx, s := range schemas {
		if s == nil {
			continue
		}
		b, err := Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("seo: marshal schema %d: %w", idx, err)
		}
		out = append(out, string(b))
	}
	return out, nil
}
