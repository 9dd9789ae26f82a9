// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the admin actions on portfolio content.
//
// Every mutation follows the same pipeline: authorize the actor from the
// context, validate and normalize the input, write the change and its audit
// entries in one transaction, then signal cache invalidation for the entity
// type. Actions never return raw errors; they return a Result whose Message
// is safe to show and whose Kind selects the HTTP status.
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/olegiv/ofolio/internal/audit"
	"github.com/olegiv/ofolio/internal/auth"
	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/store"
)

// Invalidator is notified after a committed mutation of an entity type.
type Invalidator interface {
	Invalidate(ctx context.Context, entity model.EntityType)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithInvalidator registers the cache invalidation hook.
func WithInvalidator(inv Invalidator) Option {
	return func(s *Service) { s.invalidator = inv }
}

// Service holds one collection per content type.
type Service struct {
	db          *sql.DB
	logger      *slog.Logger
	now         func() time.Time
	invalidator Invalidator
	recorder    *audit.Recorder

	Posts         *PostCollection
	Experiences   *Collection[ExperienceView, ExperienceInput]
	WebApps       *Collection[WebAppView, WebAppInput]
	WorkSamples   *Collection[WorkSampleView, WorkSampleInput]
	Skills        *Collection[SkillView, SkillInput]
	Tools         *Collection[ToolView, ToolInput]
	PromoSections *Collection[PromoSectionView, PromoSectionInput]
}

// New creates the service. A nil db is allowed: every action then fails
// with KindConfiguration.
func New(db *sql.DB, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recorder = audit.NewRecorder(logger, s.now)

	s.Posts = newPostCollection(s)
	s.Experiences = newCollection(s, experienceOps())
	s.WebApps = newCollection(s, webAppOps())
	s.WorkSamples = newCollection(s, workSampleOps())
	s.Skills = newCollection(s, skillOps())
	s.Tools = newCollection(s, toolOps())
	s.PromoSections = newCollection(s, promoSectionOps())
	return s
}

// Configured reports whether a datastore handle is present.
func (s *Service) Configured() bool {
	return s.db != nil
}

// Audit returns the audit query surface.
func (s *Service) Audit() *AuditLog {
	return &AuditLog{svc: s}
}

// authorize returns the acting admin, or the system actor of a background job.
func (s *Service) authorize(ctx context.Context) (auth.Actor, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return auth.Actor{}, unauthorized()
	}
	if actor.Role != model.RoleAdmin && actor.Role != auth.RoleSystem {
		return auth.Actor{}, unauthorized()
	}
	return actor, nil
}

// queries returns a query set on the plain connection.
func (s *Service) queries() (*store.Queries, error) {
	if !s.Configured() {
		return nil, notConfigured()
	}
	return store.New(s.db), nil
}

// read authorizes and runs fn outside a transaction.
func (s *Service) read(ctx context.Context, fn func(q *store.Queries) error) error {
	if _, err := s.authorize(ctx); err != nil {
		return err
	}
	q, err := s.queries()
	if err != nil {
		return err
	}
	return fn(q)
}

// mutation is the state shared by one transactional action.
type mutation struct {
	q        *store.Queries
	actor    auth.Actor
	now      time.Time
	recorder *audit.Recorder
	metadata map[string]string
	touched  map[model.EntityType]bool
}

// record appends an audit entry in the mutation's transaction.
func (m *mutation) record(ctx context.Context, entity model.EntityType, id int64, action model.AuditAction, before, after any) error {
	if err := m.recorder.RecordChange(ctx, m.q, m.actor.Email, entity, id, action, before, after, m.metadata); err != nil {
		return err
	}
	if m.touched == nil {
		m.touched = make(map[model.EntityType]bool)
	}
	m.touched[entity] = true
	return nil
}

// mutate authorizes, runs fn in a transaction and, after commit, invalidates
// the caches of every entity type fn recorded a change for.
func (s *Service) mutate(ctx context.Context, fn func(m *mutation) error) error {
	actor, err := s.authorize(ctx)
	if err != nil {
		return err
	}
	if !s.Configured() {
		return notConfigured()
	}

	m := &mutation{
		actor:    actor,
		now:      s.now().UTC(),
		recorder: s.recorder,
	}
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		m.q = q
		return fn(m)
	})
	if err != nil {
		return err
	}

	if s.invalidator != nil {
		for _, entity := range model.EntityTypes {
			if m.touched[entity] {
				s.invalidator.Invalidate(ctx, entity)
			}
		}
	}
	return nil
}

// finish converts the outcome of an action into a Result and logs failures.
func finish[T any](ctx context.Context, s *Service, op string, entity model.EntityType, data T, err error) Result[T] {
	if err == nil {
		return success(data)
	}

	e := classify(entity, err)
	attrs := []any{"op", op, "entity_type", entity, "kind", e.Kind, "error", err}
	switch e.Kind {
	case KindPersistence, KindConfiguration:
		s.logger.ErrorContext(ctx, "action failed", attrs...)
	default:
		s.logger.InfoContext(ctx, "action rejected", attrs...)
	}
	return failure[T](e)
}
