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
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/sethgrid/pester"
)

// Doer lets us use pester, http.DefaultClient or other HTTP client
// implementations interchangeably.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client knows about an endpoint and how to reach it. It holds no per request
// state and can be shared between goroutines.
type Client struct {
	endpoint    *url.URL
	doer        Doer
	granularity string
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithDoer sets the HTTP client, e.g. a CachingDoer or http.DefaultClient.
func WithDoer(doer Doer) Option {
	return func(c *Client) { c.doer = doer }
}

// WithGranularity sets the format for from and until parameters, one of
// DayGranularity or SecondGranularity.
func WithGranularity(layout string) Option {
	return func(c *Client) { c.granularity = layout }
}

// WithUserAgent overrides the default UserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewPester returns a resilient HTTP client, retrying with exponential
// backoff.
func NewPester() *pester.Client {
	c := pester.New()
	c.Timeout = 5 * time.Minute
	c.MaxRetries = 8
	c.Backoff = pester.ExponentialBackoff
	return c
}

// NewClient creates a client for the OAI endpoint, which must be an absolute
// URL.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, &Error{Kind: InvalidArgument, Msg: endpoint, Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errorf(InvalidArgument, "%s", endpoint)
	}
	c := &Client{
		endpoint:    u,
		granularity: DayGranularity,
		userAgent:   UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = NewPester()
	}
	return c, nil
}

// Endpoint returns the base URL.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// URL returns the absolute URL for a given request.
func (c *Client) URL(req Request) (string, error) {
	q, err := req.Encode(c.granularity)
	if err != nil {
		return "", err
	}
	u := *c.endpoint
	u.RawQuery = q
	return u.String(), nil
}

// fetch executes a single request and returns the response body.
func (c *Client) fetch(ctx context.Context, req Request) (string, error) {
	link, err := c.URL(req)
	if err != nil {
		return "", err
	}
	if Verbose {
		log.Println(link)
	}
	hreq, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return "", &Error{Kind: InvalidArgument, Msg: link, Err: err}
	}
	hreq.Header.Set("User-Agent", c.userAgent)
	resp, err := c.doer.Do(hreq)
	if err != nil {
		return "", wrap(Internal, &TransportError{URL: link, Retryable: ctx.Err() == nil, Err: err})
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		te := &TransportError{
			URL:        link,
			StatusCode: resp.StatusCode,
			Retryable:  retryableStatus(resp.StatusCode),
			Err:        fmt.Errorf("unexpected status: %s", resp.Status),
		}
		if err == nil {
			te.Body = string(b)
		}
		return "", wrap(Internal, te)
	}
	if err != nil {
		return "", wrap(Internal, &TransportError{URL: link, Retryable: true, Err: err})
	}
	return string(b), nil
}
