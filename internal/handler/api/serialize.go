// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/olegiv/ofolio/internal/markup"
	"github.com/olegiv/ofolio/internal/service"
)

// idsRequest is the body of the bulk endpoints.
type idsRequest struct {
	IDs []int64 `json:"ids"`
}

// statusRequest is the body of POST /posts/{id}/status.
type statusRequest struct {
	Target string `json:"target"`
}

// PublicPost is a published post with its body rendered to HTML.
type PublicPost struct {
	service.PublicPostView
	HTML string `json:"html"`
}

func newPublicPost(r *markup.Renderer, p service.PublicPostView) (PublicPost, error) {
	html, err := r.Render(p.Content)
	if err != nil {
		return PublicPost{}, err
	}
	return PublicPost{PublicPostView: p, HTML: html}, nil
}

// envelope is the success body of the public endpoints.
type envelope[T any] struct {
	OK   bool `json:"ok"`
	Data T    `json:"data"`
}

func ok[T any](data T) envelope[T] {
	return envelope[T]{OK: true, Data: data}
}
