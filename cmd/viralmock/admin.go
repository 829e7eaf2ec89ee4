// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	v1 "github.com/viralloop/viralloop-go/api/v1"
	"github.com/viralloop/viralloop-go/testbackend"
	"github.com/viralloop/viralloop-go/util"
)

const (
	routeAdminRequests = "/admin/requests"
	routeAdminUser     = "/admin/users/{userid}"
	routeAdminReferral = "/admin/referrals"
)

// requestsQuery filters the recorded requests. Path is relative to the app
// API root, e.g. users/{userid}.
type requestsQuery struct {
	Method string `schema:"method"`
	Path   string `schema:"path"`
}

// recordedRequest is a request received by the mock backend.
type recordedRequest struct {
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// requestsReply is the reply to routeAdminRequests.
type requestsReply struct {
	Count    int               `json:"count"`
	Requests []recordedRequest `json:"requests"`
}

// referralQuery creates a referral relationship without a submission.
type referralQuery struct {
	Inviter string `schema:"inviter"`
	Invitee string `schema:"invitee"`
}

// admin serves the inspection routes of the mock backend.
type admin struct {
	appID   string
	backend *testbackend.Backend
}

func (a *admin) handleRequests(w http.ResponseWriter, r *http.Request) {
	var q requestsQuery
	err := util.ParseGetParams(r, &q)
	if err != nil {
		util.RespondWithError(w, http.StatusBadRequest, "invalid_query")
		return
	}

	var path string
	if q.Path != "" {
		path = v1.APIPath(a.appID, q.Path)
	}
	reply := requestsReply{
		Requests: make([]recordedRequest, 0, 16),
	}
	for _, v := range a.backend.Requests() {
		if q.Method != "" && v.Method != q.Method {
			continue
		}
		if path != "" && v.Path != path {
			continue
		}
		rr := recordedRequest{
			Method: v.Method,
			Path:   v.Path,
		}
		if json.Valid(v.Body) {
			rr.Body = v.Body
		}
		reply.Requests = append(reply.Requests, rr)
	}
	reply.Count = len(reply.Requests)

	util.RespondWithJSON(w, http.StatusOK, reply)
}

func (a *admin) handleUser(w http.ResponseWriter, r *http.Request) {
	u, ok := a.backend.User(mux.Vars(r)["userid"])
	if !ok {
		util.RespondWithError(w, http.StatusNotFound,
			testbackend.ErrorUserNotFound)
		return
	}
	util.RespondWithJSON(w, http.StatusOK, u)
}

func (a *admin) handleReferral(w http.ResponseWriter, r *http.Request) {
	var q referralQuery
	err := util.ParseGetParams(r, &q)
	if err != nil || q.Inviter == "" || q.Invitee == "" {
		util.RespondWithError(w, http.StatusBadRequest, "invalid_query")
		return
	}
	if !a.backend.AddReferral(q.Inviter, q.Invitee) {
		util.RespondWithError(w, http.StatusNotFound,
			testbackend.ErrorUserNotFound)
		return
	}

	log.Infof("Referral added: %v invited %v", q.Inviter, q.Invitee)

	w.WriteHeader(http.StatusNoContent)
}

// newRouter returns the router of the mock. The admin routes are served
// next to the app API of the backend.
func newRouter(appID string, b *testbackend.Backend) *mux.Router {
	a := &admin{
		appID:   appID,
		backend: b,
	}
	router := mux.NewRouter()
	router.Use(recoverMiddleware)
	router.Use(loggingMiddleware)
	router.Use(maxBodySizeMiddleware)
	router.HandleFunc(routeAdminRequests, a.handleRequests).
		Methods(http.MethodGet)
	router.HandleFunc(routeAdminUser, a.handleUser).
		Methods(http.MethodGet)
	router.HandleFunc(routeAdminReferral, a.handleReferral).
		Methods(http.MethodPost)
	router.PathPrefix("/api/").Handler(b)

	return router
}
