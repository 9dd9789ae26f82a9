// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/poststatus"
)

// Kind classifies action failures.
type Kind int

// Failure kinds.
const (
	KindUnauthorized Kind = iota + 1
	KindValidation
	KindNotFound
	KindPersistence
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence_error"
	case KindConfiguration:
		return "configuration_error"
	}
	return "unknown"
}

// HTTPStatus maps k to the status code the transport responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConfiguration:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error is a classified action failure. Message is safe to show to the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrUnauthorized  = &Error{Kind: KindUnauthorized}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrPersistence   = &Error{Kind: KindPersistence}
	ErrNotConfigured = &Error{Kind: KindConfiguration}
)

func unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
}

func notConfigured() *Error {
	return &Error{Kind: KindConfiguration, Message: "Datastore is not configured"}
}

func invalid(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(entity model.EntityType) *Error {
	return &Error{Kind: KindNotFound, Message: displayName(entity) + " not found", Err: sql.ErrNoRows}
}

// classify turns any error into an *Error. Unclassified errors are
// persistence failures whose message is passed through.
func classify(entity model.EntityType, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var fe *poststatus.FieldError
	if errors.As(err, &fe) {
		return &Error{Kind: KindValidation, Message: fe.Error(), Err: err}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindPersistence, Message: "Request was cancelled before the database answered", Err: err}
	}
	if isUniqueViolation(err) {
		return &Error{Kind: KindPersistence, Message: "A record with the same unique value already exists", Err: err}
	}
	return &Error{Kind: KindPersistence, Message: err.Error(), Err: err}
}

// isUniqueViolation matches the constraint messages of both SQLite drivers.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func displayName(entity model.EntityType) string {
	switch entity {
	case model.EntityWebApp:
		return "Web app"
	case model.EntityWorkSample:
		return "Work sample"
	case model.EntityPromoSection:
		return "Promo section"
	case "":
		return "Record"
	}
	return string(entity)
}

// Result is the discriminated outcome of an action: Data on success,
// Message on failure. Kind is zero on success.
type Result[T any] struct {
	OK      bool   `json:"ok"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Kind    Kind   `json:"-"`
}

func success[T any](data T) Result[T] {
	return Result[T]{OK: true, Data: data}
}

func failure[T any](e *Error) Result[T] {
	return Result[T]{OK: false, Message: e.Message, Kind: e.Kind}
}
