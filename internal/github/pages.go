// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"context"
	"fmt"
	"net/http"

	resterrors "github.com/sirseerhq/sirseer-rest/internal/errors"
	"github.com/sirseerhq/sirseer-rest/internal/normalize"
	"github.com/sirseerhq/sirseer-rest/internal/params"
	"github.com/sirseerhq/sirseer-rest/internal/transport"
)

// Link relations understood by the page helpers.
const (
	RelNext  = "next"
	RelPrev  = "prev"
	RelFirst = "first"
	RelLast  = "last"
)

// NextPage fetches the page after env. It returns ErrNoPage when env
// has no next link.
func (c *Client) NextPage(ctx context.Context, env *normalize.Envelope) (*normalize.Envelope, error) {
	return c.Page(ctx, env, RelNext)
}

// PreviousPage fetches the page before env.
func (c *Client) PreviousPage(ctx context.Context, env *normalize.Envelope) (*normalize.Envelope, error) {
	return c.Page(ctx, env, RelPrev)
}

// FirstPage fetches the first page of the listing env belongs to.
func (c *Client) FirstPage(ctx context.Context, env *normalize.Envelope) (*normalize.Envelope, error) {
	return c.Page(ctx, env, RelFirst)
}

// LastPage fetches the last page of the listing env belongs to.
func (c *Client) LastPage(ctx context.Context, env *normalize.Envelope) (*normalize.Envelope, error) {
	return c.Page(ctx, env, RelLast)
}

// Page follows the rel link of env.
func (c *Client) Page(ctx context.Context, env *normalize.Envelope, rel string) (*normalize.Envelope, error) {
	if env == nil {
		return nil, fmt.Errorf("%s page: %w", rel, resterrors.ErrNoPage)
	}
	link := env.Meta.Link(rel)
	if link == "" {
		return nil, fmt.Errorf("%s page: %w", rel, resterrors.ErrNoPage)
	}
	return c.send(ctx, "page."+rel, &transport.Request{Method: http.MethodGet, Path: link})
}

// Pages calls the named route and hands every page to fn, following
// next links until there are none, fn returns an error, or a link
// repeats.
func (c *Client) Pages(ctx context.Context, name string, msg params.Message, fn func(*normalize.Envelope) error) error {
	env, err := c.Call(ctx, name, msg)
	if err != nil {
		return err
	}
	return c.follow(ctx, env, fn)
}

// Resume continues a listing from link, a next URL saved from an
// earlier page, and follows it like Pages.
func (c *Client) Resume(ctx context.Context, link string, fn func(*normalize.Envelope) error) error {
	if link == "" {
		return fmt.Errorf("resume: %w", resterrors.ErrNoPage)
	}
	env, err := c.send(ctx, "page."+RelNext, &transport.Request{Method: http.MethodGet, Path: link})
	if err != nil {
		return err
	}
	return c.follow(ctx, env, fn, link)
}

func (c *Client) follow(ctx context.Context, env *normalize.Envelope, fn func(*normalize.Envelope) error, visited ...string) error {
	seen := make(map[string]bool, len(visited))
	for _, link := range visited {
		seen[link] = true
	}

	for {
		if err := fn(env); err != nil {
			return err
		}
		next := env.Meta.Link(RelNext)
		if next == "" || seen[next] {
			return nil
		}
		seen[next] = true

		var err error
		if env, err = c.NextPage(ctx, env); err != nil {
			return err
		}
	}
}
