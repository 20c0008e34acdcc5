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
	"context"
	"fmt"
	"log"
)

// Harvester issues requests for records in format M. It holds no state
// between calls, and can be used by many goroutines at once.
type Harvester[M any] struct {
	// MaxRequests limits the number of pages of a single harvest, zero means
	// no limit. A limit protects against broken resumptionToken
	// implementations, that never end a list.
	MaxRequests int
	// CheckListSize fails a harvest, if the number of records differs from
	// the last completeListSize the server reported.
	CheckListSize bool

	client *Client
	format Format[M]
}

// NewHarvester binds a client to a metadata format.
func NewHarvester[M any](client *Client, format Format[M]) *Harvester[M] {
	return &Harvester[M]{client: client, format: format}
}

// HarvestResult contains all records of a list, in the order they arrived.
type HarvestResult[M any] struct {
	Records []Record[M] `json:"records"`
	// Requests is the number of pages fetched.
	Requests int `json:"requests"`
	// CompleteListSize is the last size announced by the server, if any.
	CompleteListSize *uint64 `json:"complete_list_size,omitempty"`
}

// GetRecord fetches a single record.
func (h *Harvester[M]) GetRecord(ctx context.Context, identifier string) (*SingleRecord[M], error) {
	text, err := h.client.fetch(ctx, getRecordRequest(identifier, h.format.Prefix()))
	if err != nil {
		return nil, err
	}
	return parseSingleRecord(h.format, identifier, text)
}

// ListRecords fetches the first page of a list.
func (h *Harvester[M]) ListRecords(ctx context.Context, p Params) (*Page[M], error) {
	text, err := h.client.fetch(ctx, listRecordsRequest(h.format.Prefix(), p))
	if err != nil {
		return nil, err
	}
	return parsePage(h.format, text)
}

// Next fetches the page following p. It fails with ErrNoMoreResults, if p
// is nil or has no resumption token value.
func (h *Harvester[M]) Next(ctx context.Context, p *Page[M]) (*Page[M], error) {
	if p == nil || !p.HasNext() {
		return nil, ErrNoMoreResults
	}
	return h.resume(ctx, p.token())
}

func (h *Harvester[M]) resume(ctx context.Context, token string) (*Page[M], error) {
	text, err := h.client.fetch(ctx, resumeRequest(token))
	if err != nil {
		return nil, err
	}
	return parsePage(h.format, text)
}

// ListAll follows resumption tokens until the list is complete. Any failure
// aborts the harvest, records of earlier pages are discarded.
func (h *Harvester[M]) ListAll(ctx context.Context, p Params) (*HarvestResult[M], error) {
	fetch := func(ctx context.Context, token string) (*Page[M], error) {
		if token == "" {
			return h.ListRecords(ctx, p)
		}
		return h.resume(ctx, token)
	}
	hv := &harvest[M]{maxRequests: h.MaxRequests}
	result, err := hv.run(ctx, fetch)
	if err != nil {
		return nil, err
	}
	if err := h.checkListSize(result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListWindows splits the date range of p with split, e.g. Window.Weekly, and
// harvests every window in turn. An empty window contributes no records.
// Windows are aligned to UTC days.
func (h *Harvester[M]) ListWindows(ctx context.Context, p Params, split WindowFunc) (*HarvestResult[M], error) {
	if p.From.IsZero() || p.Until.IsZero() {
		return nil, ErrMissingFromOrUntil
	}
	// Requests encode dates in UTC.
	windows, err := split(Window{From: p.From.UTC(), Until: p.Until.UTC()})
	if err != nil {
		return nil, err
	}
	total := &HarvestResult[M]{Records: []Record[M]{}}
	for _, w := range windows {
		wp := Params{From: w.From, Until: w.Until, Set: p.Set}
		result, err := h.ListAll(ctx, wp)
		if err != nil {
			return nil, fmt.Errorf("window %s-%s: %w",
				w.From.Format(DayGranularity), w.Until.Format(DayGranularity), err)
		}
		total.Records = append(total.Records, result.Records...)
		total.Requests += result.Requests
	}
	return total, nil
}

func (h *Harvester[M]) checkListSize(result *HarvestResult[M]) error {
	if result.CompleteListSize == nil {
		return nil
	}
	want, got := *result.CompleteListSize, uint64(len(result.Records))
	if want == got {
		return nil
	}
	if h.CheckListSize {
		return errorf(InvalidResponse, "harvested %d records, server announced %d", got, want)
	}
	if Verbose {
		log.Printf("[harvest] [warn] harvested %d records, server announced %d", got, want)
	}
	return nil
}

// harvestState is the position of a harvest in a list.
type harvestState int

const (
	stateStart harvestState = iota
	stateContinuing
	stateDone
)

func (s harvestState) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateContinuing:
		return "continuing"
	default:
		return "done"
	}
}

// pageFunc fetches the first page for an empty token, the following page
// otherwise.
type pageFunc[M any] func(ctx context.Context, token string) (*Page[M], error)

// harvest is the mutable state of a single ListAll call.
type harvest[M any] struct {
	state       harvestState
	token       string
	records     []Record[M]
	requests    int
	size        *uint64
	maxRequests int
}

// step issues one request and transitions to continuing or done.
func (hv *harvest[M]) step(ctx context.Context, fetch pageFunc[M]) error {
	if hv.state == stateDone {
		return errorf(Internal, "step after done")
	}
	if hv.maxRequests > 0 && hv.requests == hv.maxRequests {
		return ErrTooManyRequests
	}
	if err := ctx.Err(); err != nil {
		return wrap(Internal, err)
	}
	page, err := fetch(ctx, hv.token)
	if err != nil {
		return err
	}
	hv.requests++
	hv.records = append(hv.records, page.Records...)
	if rt := page.ResumptionToken; rt != nil {
		size := rt.CompleteListSize
		hv.size = &size
	}
	if Verbose {
		log.Printf("[harvest] [page=%d] [records=%d] [total=%d] token=%q",
			hv.requests, len(page.Records), len(hv.records), page.token())
	}
	if page.HasNext() {
		hv.state, hv.token = stateContinuing, page.token()
	} else {
		hv.state, hv.token = stateDone, ""
	}
	return nil
}

// run steps until done.
func (hv *harvest[M]) run(ctx context.Context, fetch pageFunc[M]) (*HarvestResult[M], error) {
	hv.records = []Record[M]{}
	for hv.state != stateDone {
		if err := hv.step(ctx, fetch); err != nil {
			return nil, err
		}
	}
	return &HarvestResult[M]{Records: hv.records, Requests: hv.requests, CompleteListSize: hv.size}, nil
}
