// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package client

import (
	"context"
	"net/http"

	v1 "github.com/viralloop/viralloop-go/api/v1"
)

// UserNew registers a new user.
func (c *Client) UserNew(ctx context.Context, u v1.User) (*v1.User, error) {
	resBody, err := c.makeReq(ctx, http.MethodPost, v1.RouteUsers, u)
	if err != nil {
		return nil, err
	}
	return decodeUser(resBody)
}

// UserDetails returns the user with the provided external user id.
func (c *Client) UserDetails(ctx context.Context, userID string) (*v1.User, error) {
	route := v1.UserRoute(v1.RouteUser, userID)
	resBody, err := c.makeReq(ctx, http.MethodGet, route, nil)
	if err != nil {
		return nil, err
	}
	return decodeUser(resBody)
}

// UserEdit updates the paid status and the lifetime value of a user.
func (c *Client) UserEdit(ctx context.Context, userID string, e v1.UserEdit) (*v1.User, error) {
	route := v1.UserRoute(v1.RouteUser, userID)
	resBody, err := c.makeReq(ctx, http.MethodPut, route, e)
	if err != nil {
		return nil, err
	}
	return decodeUser(resBody)
}

// UserDailyUpdate sends the daily device metadata update of a user.
func (c *Client) UserDailyUpdate(ctx context.Context, userID string, d v1.UserDailyUpdate) (*v1.User, error) {
	route := v1.UserRoute(v1.RouteUser, userID)
	resBody, err := c.makeReq(ctx, http.MethodPut, route, d)
	if err != nil {
		return nil, err
	}
	return decodeUser(resBody)
}

// AttributionSet sets the attribution data of a user.
func (c *Client) AttributionSet(ctx context.Context, userID string, a v1.AttributionUpdate) (*v1.User, error) {
	route := v1.UserRoute(v1.RouteAttribution, userID)
	resBody, err := c.makeReq(ctx, http.MethodPut, route, a)
	if err != nil {
		return nil, err
	}
	return decodeUser(resBody)
}
