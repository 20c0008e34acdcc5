//  Copyright 2015 by Leipzig University Library, http://ub.uni-leipzig.de
//                    The Finc Authors, http://finc.info
//                    Martin Czygan, <martin.czygan@uni-leipzig.de>
//
// This file is part of some open source application.
//
// Some open source application is free software: you can redistribute
// it and/or modify it under the terms of the GNU General Public
// License as published by the Free Software Foundation, either
// version 3 of the License, or (at your option) any later version.
//
// Some open source application is distributed in the hope that it will
// be useful, but WITHOUT ANY WARRANTY; without even the implied warranty
// of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Foobar.  If not, see <http://www.gnu.org/licenses/>.
//
// @license GPL-3.0+ <http://spdx.org/licenses/GPL-3.0+>

package oai

import (
	"log"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Header is the record header shared by all formats.
type Header struct {
	Identifier string    `json:"identifier"`
	Datestamp  time.Time `json:"datestamp"`
	SetSpec    []string  `json:"set_spec"`
	// Deleted records come without metadata.
	Deleted bool `json:"deleted,omitempty"`
}

// Record is a header and the metadata in format M.
type Record[M any] struct {
	Header   Header `json:"header"`
	Metadata M      `json:"metadata"`
}

// ResumptionToken is part of OAI flow control (3.5). A nil Value means the
// list is complete, regardless of the cursor and size.
type ResumptionToken struct {
	Value *string `json:"value"`
	// An integer indicating the cardinality of the complete list. The value
	// of completeListSize may be only an estimate of the actual cardinality
	// of the complete list and may be revised during the list request
	// sequence.
	CompleteListSize uint64 `json:"complete_list_size"`
	// A count of the number of elements of the complete list thus far
	// returned (i.e. cursor starts at 0).
	Cursor uint64 `json:"cursor"`
}

// SingleRecord is a GetRecord response.
type SingleRecord[M any] struct {
	ResponseDate time.Time `json:"response_date"`
	Record       Record[M] `json:"record"`
}

// Page is a ListRecords response, records in document order.
type Page[M any] struct {
	ResponseDate    time.Time        `json:"response_date"`
	Records         []Record[M]      `json:"records"`
	ResumptionToken *ResumptionToken `json:"resumption_token"`
}

// HasNext returns true, if the page carries a resumption token value.
func (p *Page[M]) HasNext() bool {
	return p.ResumptionToken != nil && p.ResumptionToken.Value != nil
}

// token returns the value to continue with, or the empty string.
func (p *Page[M]) token() string {
	if !p.HasNext() {
		return ""
	}
	return *p.ResumptionToken.Value
}

// readDocument parses text and checks for an OAI error element.
func readDocument(text string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, wrap(InvalidResponse, err)
	}
	switch n := len(doc.ChildElements()); {
	case n == 0:
		return nil, errorf(InvalidResponse, "no root element")
	case n > 1:
		return nil, errorf(InvalidResponse, "%d root elements", n)
	}
	return doc.Root(), nil
}

// oaiError returns the first error element of a response, if any.
func oaiError(root *etree.Element) *OAIError {
	el, err := findChild(root, "error")
	if err != nil {
		return nil
	}
	return &OAIError{
		Code:    el.SelectAttrValue("code", ""),
		Message: strings.TrimSpace(el.Text()),
	}
}

func parseHeader(el *etree.Element) (Header, error) {
	var h Header
	var err error
	if h.Identifier, err = findChildParsed(el, "identifier", parseString); err != nil {
		return h, err
	}
	if h.Datestamp, err = findChildParsed(el, "datestamp", parseDatestamp); err != nil {
		return h, err
	}
	h.SetSpec = []string{}
	for _, s := range childrenByTag(el, "setSpec") {
		if v := optionalText(s); v != nil {
			h.SetSpec = append(h.SetSpec, *v)
		}
	}
	h.Deleted = el.SelectAttrValue("status", "") == "deleted"
	return h, nil
}

func parseRecord[M any](f Format[M], el *etree.Element) (Record[M], error) {
	var r Record[M]
	hel, err := findChild(el, "header")
	if err != nil {
		return r, err
	}
	if r.Header, err = parseHeader(hel); err != nil {
		return r, err
	}
	mel, err := findChild(el, "metadata")
	if err != nil {
		if r.Header.Deleted {
			return r, nil
		}
		return r, err
	}
	if r.Metadata, err = f.Parse(mel); err != nil {
		return r, err
	}
	return r, nil
}

// parseSingleRecord parses a GetRecord response. The first record wins.
func parseSingleRecord[M any](f Format[M], identifier, text string) (*SingleRecord[M], error) {
	root, err := readDocument(text)
	if err != nil {
		return nil, err
	}
	if e := oaiError(root); e != nil {
		if e.Code == "idDoesNotExist" {
			return nil, &Error{Kind: NotFound, Msg: identifier, Err: *e}
		}
		return nil, wrap(InvalidResponse, *e)
	}
	date, err := findChildParsed(root, "responseDate", parseDatestamp)
	if err != nil {
		return nil, err
	}
	section, err := findChild(root, "GetRecord")
	if err != nil {
		return nil, err
	}
	els := childrenByTag(section, "record")
	if len(els) == 0 {
		return nil, &Error{Kind: NotFound, Msg: identifier}
	}
	if len(els) > 1 && Verbose {
		log.Printf("[parse] GetRecord %s returned %d records, using the first", identifier, len(els))
	}
	record, err := parseRecord(f, els[0])
	if err != nil {
		return nil, err
	}
	return &SingleRecord[M]{ResponseDate: date, Record: record}, nil
}

// parsePage parses a ListRecords response. Any malformed record fails the
// whole page. An empty list may come without a responseDate. A missing or incomplete resumption token means there is no
// next page.
func parsePage[M any](f Format[M], text string) (*Page[M], error) {
	root, err := readDocument(text)
	if err != nil {
		return nil, err
	}
	if e := oaiError(root); e != nil {
		if e.Code == "noRecordsMatch" {
			date, _ := findChildParsed(root, "responseDate", parseDatestamp)
			return &Page[M]{ResponseDate: date, Records: []Record[M]{}}, nil
		}
		return nil, wrap(InvalidResponse, *e)
	}
	date, err := findChildParsed(root, "responseDate", parseDatestamp)
	if err != nil {
		return nil, err
	}
	section, err := findChild(root, "ListRecords")
	if err != nil {
		return nil, err
	}
	page := &Page[M]{ResponseDate: date, Records: []Record[M]{}}
	for _, el := range childrenByTag(section, "record") {
		record, err := parseRecord(f, el)
		if err != nil {
			return nil, err
		}
		page.Records = append(page.Records, record)
	}
	page.ResumptionToken = parseResumptionToken(section)
	return page, nil
}

func parseResumptionToken(section *etree.Element) *ResumptionToken {
	el, err := findChild(section, "resumptionToken")
	if err != nil {
		return nil
	}
	size, err := parseUint(el.SelectAttrValue("completeListSize", ""))
	if err != nil {
		return nil
	}
	cursor, err := parseUint(el.SelectAttrValue("cursor", ""))
	if err != nil {
		return nil
	}
	return &ResumptionToken{
		Value:            optionalText(el),
		CompleteListSize: size,
		Cursor:           cursor,
	}
}
