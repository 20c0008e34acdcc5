package oai

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDublinCoreParse(t *testing.T) {
	var tests = []struct {
		about    string
		metadata string
		dc       Dc
	}{
		{
			about:    "repeated titles",
			metadata: `<metadata><dc><title>T1</title><title>T2</title></dc></metadata>`,
			dc:       Dc{"title": {strptr("T1"), strptr("T2")}},
		},
		{
			about: "namespaced, with empty element",
			metadata: `<metadata><oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/" xmlns:dc="http://purl.org/dc/elements/1.1/">
				<dc:creator>A</dc:creator><dc:subject/><dc:creator>B</dc:creator></oai_dc:dc></metadata>`,
			dc: Dc{"creator": {strptr("A"), strptr("B")}, "subject": {nil}},
		},
		{
			about:    "no wrapper",
			metadata: `<metadata><title>T1</title></metadata>`,
			dc:       Dc{},
		},
	}
	for _, test := range tests {
		dc, err := DublinCore{}.Parse(mustRoot(t, test.metadata))
		if err != nil {
			t.Errorf("%s: got %v", test.about, err)
		}
		if !reflect.DeepEqual(dc, test.dc) {
			t.Errorf("%s: got %v, want %v", test.about, dc, test.dc)
		}
	}
}

func TestDcAccessors(t *testing.T) {
	dc := Dc{"title": {nil, strptr("T")}, "creator": {strptr("C")}}
	if got := dc.Names(); !reflect.DeepEqual(got, []string{"creator", "title"}) {
		t.Errorf("Names() got %v", got)
	}
	if v, ok := dc.First("title"); !ok || v != "T" {
		t.Errorf("First(title) got %v, %v", v, ok)
	}
	if _, ok := dc.First("date"); ok {
		t.Errorf("First(date) got ok, want not ok")
	}
}

func TestParseXoaiElement(t *testing.T) {
	el := mustRoot(t, `<element name="root"><field name="f">v</field><element name="child"/></element>`)
	got, err := parseXoaiElement(el, 1, DefaultMaxDepth)
	if err != nil {
		t.Fatal(err)
	}
	want := XoaiElement{
		Name:     "root",
		Fields:   &[]XoaiField{{Name: strptr("f"), Value: strptr("v")}},
		Children: &[]XoaiElement{{Name: "child"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseXoaiElement got %+v, want %+v", got, want)
	}
}

func TestXoaiParse(t *testing.T) {
	var tests = []struct {
		about    string
		metadata string
		want     XoaiElements
		err      error
	}{
		{
			about:    "fields without name or value",
			metadata: `<metadata><metadata><element name="a"><field>x</field><field name="n"/></element></metadata></metadata>`,
			want: XoaiElements{{
				Name:   "a",
				Fields: &[]XoaiField{{Value: strptr("x")}, {Name: strptr("n")}},
			}},
		},
		{
			about:    "missing name",
			metadata: `<metadata><metadata><element name="a"><element/></element></metadata></metadata>`,
			err:      ErrInternal,
		},
		{
			about:    "empty",
			metadata: `<metadata/>`,
			want:     XoaiElements{},
		},
	}
	for _, test := range tests {
		got, err := Xoai{}.Parse(mustRoot(t, test.metadata))
		if test.err != nil {
			if !errors.Is(err, test.err) {
				t.Errorf("%s: got %v, want %v", test.about, err, test.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: got %v", test.about, err)
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: got %+v, want %+v", test.about, got, test.want)
		}
	}
}

func TestXoaiMaxDepth(t *testing.T) {
	nested := strings.Repeat(`<element name="x">`, 5) + strings.Repeat(`</element>`, 5)
	metadata := mustRoot(t, `<metadata><metadata>`+nested+`</metadata></metadata>`)
	if _, err := (Xoai{MaxDepth: 5}).Parse(metadata); err != nil {
		t.Errorf("depth 5 with limit 5 got %v", err)
	}
	if _, err := (Xoai{MaxDepth: 4}).Parse(metadata); !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("depth 5 with limit 4 got %v, want invalid response", err)
	}
}

func TestRawParse(t *testing.T) {
	got, err := Raw{}.Parse(mustRoot(t, `<metadata><marc:record xmlns:marc="urn:marc"><marc:leader>x</marc:leader></marc:record></metadata>`))
	if err != nil {
		t.Fatal(err)
	}
	want := `<marc:record xmlns:marc="urn:marc"><marc:leader>x</marc:leader></marc:record>`
	if got != want {
		t.Errorf("Raw.Parse got %s, want %s", got, want)
	}
	if (Raw{}).Prefix() != DefaultFormat || (Raw{Name: "marcxml"}).Prefix() != "marcxml" {
		t.Errorf("Raw.Prefix mismatch")
	}
}
