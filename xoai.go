package oai

import (
	"github.com/beevik/etree"
)

// DefaultMaxDepth limits the nesting of xoai elements.
const DefaultMaxDepth = 64

// XoaiField is a name/value pair, both may be missing.
type XoaiField struct {
	Name  *string `json:"name"`
	Value *string `json:"value"`
}

// XoaiElement is a named node of the xoai tree. Fields and Children are nil,
// when the element has none.
type XoaiElement struct {
	Name     string         `json:"name"`
	Fields   *[]XoaiField   `json:"fields"`
	Children *[]XoaiElement `json:"children"`
}

// XoaiElements are the top level elements of a xoai record.
type XoaiElements []XoaiElement

// Xoai is the DSpace xoai format, a generic nested element structure.
type Xoai struct {
	// MaxDepth bounds the recursion, DefaultMaxDepth if zero.
	MaxDepth int
}

func (Xoai) Prefix() string { return "xoai" }

// Parse converts metadata/metadata/element nodes. Every element must carry a
// name attribute.
func (f Xoai) Parse(metadata *etree.Element) (XoaiElements, error) {
	limit := f.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	elements := XoaiElements{}
	for _, inner := range childrenByTag(metadata, "metadata") {
		for _, el := range childrenByTag(inner, "element") {
			e, err := parseXoaiElement(el, 1, limit)
			if err != nil {
				return nil, err
			}
			elements = append(elements, e)
		}
	}
	return elements, nil
}

func parseXoaiElement(el *etree.Element, depth, limit int) (XoaiElement, error) {
	var e XoaiElement
	if depth > limit {
		return e, errorf(InvalidResponse, "xoai elements nested deeper than %d", limit)
	}
	name := optionalAttr(el, "name")
	if name == nil {
		return e, errorf(Internal, "no name")
	}
	e.Name = *name

	var fields []XoaiField
	for _, f := range childrenByTag(el, "field") {
		fields = append(fields, XoaiField{Name: optionalAttr(f, "name"), Value: optionalText(f)})
	}
	if len(fields) > 0 {
		e.Fields = &fields
	}

	var children []XoaiElement
	for _, c := range childrenByTag(el, "element") {
		child, err := parseXoaiElement(c, depth+1, limit)
		if err != nil {
			return e, err
		}
		children = append(children, child)
	}
	if len(children) > 0 {
		e.Children = &children
	}
	return e, nil
}
