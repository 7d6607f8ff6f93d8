// Copyright 2016 The etcd Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package directory offers a recursive subtree listing built strictly out
// of the xenstore package's Directory primitive (SPEC_FULL.md §D.2)
// — a convenience real xenstore clients provide that the bare operation
// list does not.
package directory

import (
	"context"
	"path"
	"time"

	"github.com/ls-2018/xenstore"
)

// Walk recursively lists every path under root, including root itself,
// by repeated calls to Directory. It issues one request per directory
// node; callers walking a large subtree may prefer to cache results (see
// NewCache) across repeated walks.
func Walk(ctx context.Context, h xenstore.Handle, root string) ([]string, error) {
	var out []string
	if err := walk(ctx, h, root, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walk(ctx context.Context, h xenstore.Handle, node string, out *[]string) error {
	*out = append(*out, node)

	children, err := xenstore.Directory(ctx, h, node)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := walk(ctx, h, path.Join(node, child), out); err != nil {
			return err
		}
	}
	return nil
}

// WalkCached behaves like Walk, but consults cache before issuing a
// Directory request for a node and populates it with ttl-bounded entries
// afterwards, so repeated walks of a mostly-static subtree don't re-fetch
// unchanged directories.
func WalkCached(ctx context.Context, h xenstore.Handle, root string, cache *Cache, ttl time.Duration) ([]string, error) {
	var out []string
	if err := walkCached(ctx, h, root, cache, ttl, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walkCached(ctx context.Context, h xenstore.Handle, node string, cache *Cache, ttl time.Duration, out *[]string) error {
	*out = append(*out, node)

	children, ok := cache.Get(node)
	if !ok {
		var err error
		children, err = xenstore.Directory(ctx, h, node)
		if err != nil {
			return err
		}
		cache.Set(node, children, ttl)
	}
	for _, child := range children {
		if err := walkCached(ctx, h, path.Join(node, child), cache, ttl, out); err != nil {
			return err
		}
	}
	return nil
}
