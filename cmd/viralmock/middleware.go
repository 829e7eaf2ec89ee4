// Copyright (c) 2021-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"runtime/debug"

	"github.com/viralloop/viralloop-go/util"
)

const (
	// reqBodySizeLimit is the maximum number of bytes allowed in a
	// request body.
	reqBodySizeLimit = 1024 * 1024 // 1 MiB
)

// maxBodySizeMiddleware applies a maximum size limit to the request body.
func maxBodySizeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, reqBodySizeLimit)
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all incoming requests before calling the next
// handler.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Tracef("%v", newLogClosure(func() string {
			trace, err := httputil.DumpRequest(r, true)
			if err != nil {
				trace = []byte(fmt.Sprintf("logging: "+
					"DumpRequest %v", err))
			}
			return string(trace)
		}))

		log.Infof("%v %v %v %v", util.RemoteAddr(r), r.Method, r.URL,
			r.Proto)

		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware recovers from any panics by logging the panic and
// returning a 500 response.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Criticalf("%v %v %v: %v", util.RemoteAddr(r),
					r.Method, r.URL, err)
				log.Criticalf("Stacktrace (THIS IS AN ACTUAL PANIC): %s",
					debug.Stack())

				util.RespondWithError(w,
					http.StatusInternalServerError, "internal_error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
