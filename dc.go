package oai

import (
	"sort"

	"github.com/beevik/etree"
	"github.com/samber/lo"
)

// Dc holds simple Dublin Core metadata. Every element name maps to its values
// in document order; elements without text are kept as nil.
type Dc map[string][]*string

// Names returns the element names in lexical order.
func (dc Dc) Names() []string {
	names := lo.Keys(dc)
	sort.Strings(names)
	return names
}

// First returns the first non-empty value of the named element.
func (dc Dc) First(name string) (string, bool) {
	for _, v := range dc[name] {
		if v != nil {
			return *v, true
		}
	}
	return "", false
}

// DublinCore is the oai_dc format, which every repository must support.
type DublinCore struct{}

func (DublinCore) Prefix() string { return "oai_dc" }

// Parse collects the children of every dc wrapper inside metadata. Content is
// treated leniently: a metadata element without a dc wrapper yields an empty
// map.
func (DublinCore) Parse(metadata *etree.Element) (Dc, error) {
	dc := make(Dc)
	for _, wrapper := range childrenByTag(metadata, "dc") {
		for _, el := range wrapper.ChildElements() {
			dc[el.Tag] = append(dc[el.Tag], optionalText(el))
		}
	}
	return dc, nil
}
