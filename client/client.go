// Copyright (c) 2020-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package client provides a client for the Viralloop HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	v1 "github.com/viralloop/viralloop-go/api/v1"
	"github.com/viralloop/viralloop-go/util"
	"github.com/viralloop/viralloop-go/util/version"
)

// Opts contains the optional client settings.
type Opts struct {
	// HTTPClient is used to send requests. The http default client is
	// used when nil.
	HTTPClient *http.Client
}

// Client provides a client for interacting with the Viralloop API of a
// single app.
type Client struct {
	host   string
	appID  string
	apiKey string
	http   *http.Client
}

// URL returns the full URL of the provided route.
func (c *Client) URL(route string) string {
	return c.host + v1.APIPath(c.appID, route)
}

// makeReq makes a Viralloop http request to the method and route provided,
// serializing the provided object as the request body, and returning the
// response body.
//
// The reply is handled in the following order. A transport error is
// returned unchanged. An empty body returns ErrNoData. A status code of 400
// or above returns an APIError, or ErrUnknown when the body does not name
// the error.
func (c *Client) makeReq(ctx context.Context, method, route string, v interface{}) ([]byte, error) {
	// Serialize body
	var reqBody []byte
	if v != nil {
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			return nil, EncodingError{Err: err}
		}
		log.Debugf("Request body for %v %v:\n%v",
			method, route, util.IndentJSON(reqBody))
	}

	// Send request
	fullRoute := c.URL(route)
	req, err := http.NewRequestWithContext(ctx, method,
		fullRoute, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	log.Tracef("%v %v", method, fullRoute)

	r, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrInvalidResponse
	}
	defer r.Body.Close()

	respBody, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(respBody) == 0 {
		return nil, ErrNoData
	}

	log.Debugf("Response for %v %v (%v):\n%v",
		method, route, r.StatusCode, util.IndentJSON(respBody))

	// Handle reply
	if r.StatusCode >= http.StatusBadRequest {
		var e v1.ErrorReply
		err := json.Unmarshal(respBody, &e)
		if err != nil || e.Error == "" {
			return nil, ErrUnknown
		}
		return nil, APIError{
			HTTPCode: r.StatusCode,
			Message:  e.Error,
			Detail:   e.Message,
		}
	}

	return respBody, nil
}

// decode decodes a reply body into v.
func decode(b []byte, v interface{}) error {
	err := json.Unmarshal(b, v)
	if err != nil {
		log.Errorf("Failed to decode %s: %v", b, err)
		return DecodingError{Message: err.Error()}
	}
	return nil
}

// decodeUser decodes a user reply. The reply is either a {user} envelope or
// a top level user.
func decodeUser(b []byte) (*v1.User, error) {
	var ur v1.UserReply
	err := json.Unmarshal(b, &ur)
	if err == nil && ur.User != nil {
		return ur.User, nil
	}

	var u v1.User
	err = decode(b, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// New returns a new Viralloop client for the provided app.
func New(host, appID, apiKey string, opts *Opts) (*Client, error) {
	switch {
	case host == "":
		return nil, errors.Errorf("host not provided")
	case appID == "":
		return nil, errors.Errorf("app id not provided")
	case apiKey == "":
		return nil, errors.Errorf("api key not provided")
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid host %v", host)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid host scheme %q", u.Scheme)
	}

	h := http.DefaultClient
	if opts != nil && opts.HTTPClient != nil {
		h = opts.HTTPClient
	}

	return &Client{
		host:   strings.TrimRight(host, "/"),
		appID:  appID,
		apiKey: apiKey,
		http:   h,
	}, nil
}
