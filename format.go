package oai

import (
	"github.com/beevik/etree"
)

// Format turns the content of a <metadata> element into a typed value M. The
// prefix is sent verbatim as metadataPrefix. Adding a vocabulary means adding
// an implementation; parsing and harvesting never switch over formats.
type Format[M any] interface {
	Prefix() string
	Parse(metadata *etree.Element) (M, error)
}

// Raw keeps the metadata of any format as verbatim XML.
type Raw struct {
	// Name is the metadataPrefix to request, DefaultFormat if empty.
	Name string
}

// Prefix returns the configured prefix.
func (f Raw) Prefix() string {
	if f.Name == "" {
		return DefaultFormat
	}
	return f.Name
}

// Parse serializes the children of the metadata element.
func (f Raw) Parse(metadata *etree.Element) (string, error) {
	doc := etree.NewDocument()
	children := append([]etree.Token(nil), metadata.Copy().Child...)
	for _, c := range children {
		doc.AddChild(c)
	}
	s, err := doc.WriteToString()
	if err != nil {
		return "", wrap(Internal, err)
	}
	return s, nil
}
