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
	"fmt"
	"net/url"
	"time"
	"unicode/utf8"
)

const (
	// DayGranularity is the date format every repository must accept.
	DayGranularity = "2006-01-02"
	// SecondGranularity is the optional, finer date format.
	SecondGranularity = "2006-01-02T15:04:05Z"
)

var (
	// Version of this library and its commands.
	Version = "0.2.0"
	// Verbose logs requests and harvest progress.
	Verbose = false
	// UserAgent to use for requests
	UserAgent = fmt.Sprintf("oai/%s (https://github.com/kardeiz/oai)", Version)
	// DefaultFormat should be supported by most endpoints.
	DefaultFormat = "oai_dc"
	// DefaultCacheDir is the name of the cache directory below the home
	// directory.
	DefaultCacheDir = ".oaicache"
	// OAIVerbs lists the verbs this client can request (4. Protocol Requests
	// and Responses).
	OAIVerbs = map[string]bool{
		"GetRecord":   true,
		"ListRecords": true,
	}
)

// Params narrow down a ListRecords request. Zero values are not sent.
type Params struct {
	From  time.Time
	Until time.Time
	Set   string
}

// Request can hold any parameter, that you want to send to an OAI server.
type Request struct {
	Verb            string
	Prefix          string
	Identifier      string
	From            time.Time
	Until           time.Time
	Set             string
	ResumptionToken string
}

// getRecordRequest asks for a single record.
func getRecordRequest(identifier, prefix string) Request {
	return Request{Verb: "GetRecord", Identifier: identifier, Prefix: prefix}
}

// listRecordsRequest starts a list.
func listRecordsRequest(prefix string, p Params) Request {
	return Request{Verb: "ListRecords", Prefix: prefix, From: p.From, Until: p.Until, Set: p.Set}
}

// resumeRequest continues a list. The server already knows about prefix,
// dates and set.
func resumeRequest(token string) Request {
	return Request{Verb: "ListRecords", ResumptionToken: token}
}

// Encode returns the query string for the request, with dates formatted in
// the given granularity.
func (r Request) Encode(granularity string) (string, error) {
	if r.Verb == "" {
		return "", errorf(InvalidArgument, "no verb")
	}
	if _, found := OAIVerbs[r.Verb]; !found {
		return "", errorf(InvalidArgument, "bad verb: %s", r.Verb)
	}
	if granularity == "" {
		granularity = DayGranularity
	}

	values := url.Values{}
	values.Add("verb", r.Verb)

	// Collectively these requests are called list requests (3.5).
	if r.ResumptionToken != "" {
		// An exclusive argument with a value that is the flow control token.
		values.Add("resumptionToken", r.ResumptionToken)
		return encode(values)
	}

	maybeAdd := func(k string, v interface{}) {
		switch val := v.(type) {
		case time.Time:
			if !val.IsZero() {
				values.Add(k, val.UTC().Format(granularity))
			}
		case string:
			if val != "" {
				values.Add(k, val)
			}
		default:
			panic(fmt.Sprintf("maybeAdd cannot handle %T", v))
		}
	}
	if r.Prefix == "" {
		return "", errorf(InvalidArgument, "%s requires a metadataPrefix", r.Verb)
	}
	switch r.Verb {
	case "GetRecord":
		if r.Identifier == "" {
			return "", errorf(InvalidArgument, "GetRecord requires an identifier")
		}
		maybeAdd("identifier", r.Identifier)
	case "ListRecords":
		maybeAdd("from", r.From)
		maybeAdd("until", r.Until)
		maybeAdd("set", r.Set)
	}
	maybeAdd("metadataPrefix", r.Prefix)
	return encode(values)
}

// encode rejects values that cannot be percent-encoded faithfully.
func encode(values url.Values) (string, error) {
	for k, vs := range values {
		for _, v := range vs {
			if !utf8.ValidString(v) {
				return "", errorf(Internal, "cannot encode %s parameter", k)
			}
		}
	}
	return values.Encode(), nil
}
