package oai

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/samber/lo"
)

// findChild returns the first direct child element with the given local tag
// name. Namespace prefixes are not considered.
func findChild(el *etree.Element, tag string) (*etree.Element, error) {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c, nil
		}
	}
	return nil, errorf(Internal, "no such tag: %s", tag)
}

// findChildParsed finds a child and parses its text content with parse.
func findChildParsed[T any](el *etree.Element, tag string, parse func(string) (T, error)) (T, error) {
	var zero T
	c, err := findChild(el, tag)
	if err != nil {
		return zero, err
	}
	s := strings.TrimSpace(c.Text())
	if s == "" {
		return zero, errorf(Internal, "no text for: %s", tag)
	}
	v, err := parse(s)
	if err != nil {
		return zero, errorf(Internal, "no text for: %s", tag)
	}
	return v, nil
}

// childrenByTag returns all direct child elements with a given tag, in
// document order.
func childrenByTag(el *etree.Element, tag string) []*etree.Element {
	return lo.Filter(el.ChildElements(), func(c *etree.Element, _ int) bool {
		return c.Tag == tag
	})
}

// optionalText returns nil for elements without character data.
func optionalText(el *etree.Element) *string {
	if s := el.Text(); s != "" {
		return &s
	}
	return nil
}

// optionalAttr returns nil, if the attribute does not exist.
func optionalAttr(el *etree.Element, key string) *string {
	if a := el.SelectAttr(key); a != nil {
		v := a.Value
		return &v
	}
	return nil
}

func parseString(s string) (string, error) { return s, nil }

func parseUint(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) }

// parseDatestamp accepts both OAI granularities, YYYY-MM-DD and
// YYYY-MM-DDThh:mm:ssZ.
func parseDatestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(DayGranularity, s)
}
