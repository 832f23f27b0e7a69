// Package service maps each REST resource of the reservation backend to typed
// request functions. Services hold no state and never retry or cache.
package service

import (
	"context"
	"net/url"
	"strconv"
)

// Requester is the subset of the gateway the services depend on.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

func idPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}
