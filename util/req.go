// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"net/http"

	"github.com/gorilla/schema"
)

// HeaderForwardedFor is the header a reverse proxy uses to pass on the
// address of the client.
const HeaderForwardedFor = "X-Forwarded-For"

// ParseGetParams parses the query params from the GET request into
// a struct. This method requires the struct type to be defined
// with `schema` tags.
func ParseGetParams(r *http.Request, dst interface{}) error {
	err := r.ParseForm()
	if err != nil {
		return err
	}

	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d.Decode(dst, r.Form)
}

// RemoteAddr returns a string of the remote address, i.e. the address that
// sent the request.
func RemoteAddr(r *http.Request) string {
	xff := r.Header.Get(HeaderForwardedFor)
	if xff != "" {
		return fmt.Sprintf("%v via %v", xff, r.RemoteAddr)
	}
	return r.RemoteAddr
}
