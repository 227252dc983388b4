// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/space-exhibitions/spacecms/internal/auth"
	"github.com/space-exhibitions/spacecms/internal/bus"
	"github.com/space-exhibitions/spacecms/internal/model"
	"github.com/space-exhibitions/spacecms/internal/store"
)

const minPasswordLen = 8

// AccountService is the operator account directory: authentication plus
// account lifecycle management. Username and email matching is
// case-sensitive throughout, and uniqueness is enforced against all
// accounts whether active or not.
type AccountService struct {
	db      *sql.DB
	queries *store.Queries
	events  *EventService
	changes *bus.Bus
	logger  *slog.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(db *sql.DB, events *EventService, changes *bus.Bus, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		db:      db,
		queries: store.New(db),
		events:  events,
		changes: changes,
		logger:  logger,
	}
}

// Authenticate verifies login (username or email) and password. Unknown
// identifiers and wrong passwords both come back as ErrInvalidCredentials;
// a disabled account with correct credentials comes back as
// ErrAccountDisabled. On success the operator's last_login is updated.
func (s *AccountService) Authenticate(ctx context.Context, login, password string) (model.Operator, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return model.Operator{}, ErrInvalidCredentials
	}

	op, err := s.queries.GetOperatorByLogin(ctx, login)
	if errors.Is(err, sql.ErrNoRows) {
		// Burn a hash anyway so unknown identifiers take as long as
		// wrong passwords.
		_, _ = auth.Verify(password, dummyHash)
		return model.Operator{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.Operator{}, storeErr("looking up operator", err)
	}

	ok, err := auth.Verify(password, op.PasswordHash)
	if err != nil || !ok {
		_ = s.events.LogWarning(ctx, model.EventCategoryAuth,
			fmt.Sprintf("failed login for %q", login), "", nil)
		return model.Operator{}, ErrInvalidCredentials
	}

	if !op.IsActive {
		_ = s.events.LogWarning(ctx, model.EventCategoryAuth,
			fmt.Sprintf("login attempt on disabled account %q", op.Username), op.ID, nil)
		return model.Operator{}, ErrAccountDisabled
	}

	now := time.Now().UTC()
	if err := s.queries.TouchOperatorLastLogin(ctx, op.ID, now); err != nil {
		s.logger.Warn("recording last login failed", "operator", op.Username, "error", err)
	}
	op.LastLogin = sql.NullTime{Time: now, Valid: true}

	_ = s.events.LogInfo(ctx, model.EventCategoryAuth,
		fmt.Sprintf("operator %q signed in", op.Username), op.ID, nil)
	return op, nil
}

// CreateAccountInput carries the fields for a new operator account.
type CreateAccountInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Create adds a new operator account. The account starts active.
func (s *AccountService) Create(ctx context.Context, actorID string, in CreateAccountInput) (model.Operator, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validateIdentity(in.Username, in.Email, in.Role); err != nil {
		return model.Operator{}, err
	}
	if len(in.Password) < minPasswordLen {
		return model.Operator{}, &ValidationError{Field: "password",
			Reason: fmt.Sprintf("must be at least %d characters", minPasswordLen)}
	}

	taken, err := s.queries.OperatorIdentifierTaken(ctx, in.Username, in.Email, "")
	if err != nil {
		return model.Operator{}, storeErr("checking identifiers", err)
	}
	if taken {
		return model.Operator{}, ErrDuplicateIdentifier
	}

	hash, err := auth.Hash(in.Password)
	if err != nil {
		return model.Operator{}, fmt.Errorf("hashing credential: %w", err)
	}

	op := model.Operator{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.queries.CreateOperator(ctx, op); err != nil {
		if store.IsUniqueViolation(err) {
			return model.Operator{}, ErrDuplicateIdentifier
		}
		return model.Operator{}, storeErr("creating operator", err)
	}

	_ = s.events.LogInfo(ctx, model.EventCategoryAccount,
		fmt.Sprintf("operator %q created with role %s", op.Username, op.Role), actorID, nil)
	s.publish(actorID)
	return op, nil
}

// UpdateAccountInput carries the mutable fields of an account. Password is
// optional: empty means keep the current credential.
type UpdateAccountInput struct {
	Username string
	Email    string
	Role     string
	Password string
}

// Update rewrites an operator's profile. Identifier uniqueness is checked
// against every other account.
func (s *AccountService) Update(ctx context.Context, actorID, id string, in UpdateAccountInput) (model.Operator, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validateIdentity(in.Username, in.Email, in.Role); err != nil {
		return model.Operator{}, err
	}
	if in.Password != "" && len(in.Password) < minPasswordLen {
		return model.Operator{}, &ValidationError{Field: "password",
			Reason: fmt.Sprintf("must be at least %d characters", minPasswordLen)}
	}

	op, err := s.queries.GetOperator(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Operator{}, ErrNotFound
	}
	if err != nil {
		return model.Operator{}, storeErr("looking up operator", err)
	}

	taken, err := s.queries.OperatorIdentifierTaken(ctx, in.Username, in.Email, id)
	if err != nil {
		return model.Operator{}, storeErr("checking identifiers", err)
	}
	if taken {
		return model.Operator{}, ErrDuplicateIdentifier
	}

	var hash string
	if in.Password != "" {
		hash, err = auth.Hash(in.Password)
		if err != nil {
			return model.Operator{}, fmt.Errorf("hashing credential: %w", err)
		}
	}

	// Profile and credential change land together or not at all.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Operator{}, storeErr("starting transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	if err := qtx.UpdateOperatorProfile(ctx, id, in.Username, in.Email, in.Role); err != nil {
		if store.IsUniqueViolation(err) {
			return model.Operator{}, ErrDuplicateIdentifier
		}
		if errors.Is(err, sql.ErrNoRows) {
			return model.Operator{}, ErrNotFound
		}
		return model.Operator{}, storeErr("updating operator", err)
	}
	if hash != "" {
		if err := qtx.UpdateOperatorPassword(ctx, id, hash); err != nil {
			return model.Operator{}, storeErr("updating credential", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Operator{}, storeErr("committing operator update", err)
	}

	op.Username = in.Username
	op.Email = in.Email
	op.Role = in.Role

	_ = s.events.LogInfo(ctx, model.EventCategoryAccount,
		fmt.Sprintf("operator %q updated", op.Username), actorID, nil)
	s.publish(actorID)
	return op, nil
}

// SetActive enables or disables an account. Disabling does not end live
// sessions; the session middleware re-checks the flag on every request.
func (s *AccountService) SetActive(ctx context.Context, actorID, id string, active bool) error {
	err := s.queries.SetOperatorActive(ctx, id, active)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return storeErr("toggling operator", err)
	}

	verb := "disabled"
	if active {
		verb = "enabled"
	}
	_ = s.events.LogInfo(ctx, model.EventCategoryAccount,
		fmt.Sprintf("operator account %s %s", id, verb), actorID, nil)
	s.publish(actorID)
	return nil
}

// Delete removes an account. Operators cannot delete themselves.
func (s *AccountService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfDeletionForbidden
	}

	err := s.queries.DeleteOperator(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return storeErr("deleting operator", err)
	}

	_ = s.events.LogInfo(ctx, model.EventCategoryAccount,
		fmt.Sprintf("operator account %s deleted", id), actorID, nil)
	s.publish(actorID)
	return nil
}

// Get fetches a single operator by id.
func (s *AccountService) Get(ctx context.Context, id string) (model.Operator, error) {
	op, err := s.queries.GetOperator(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Operator{}, ErrNotFound
	}
	if err != nil {
		return model.Operator{}, storeErr("looking up operator", err)
	}
	return op, nil
}

// List returns all operator accounts.
func (s *AccountService) List(ctx context.Context) ([]model.Operator, error) {
	ops, err := s.queries.ListOperators(ctx)
	if err != nil {
		return nil, storeErr("listing operators", err)
	}
	return ops, nil
}

func (s *AccountService) publish(actorID string) {
	if s.changes != nil {
		s.changes.Publish(bus.Message{Topic: bus.TopicOperatorsChanged, UpdatedBy: actorID})
	}
}

func validateIdentity(username, email, role string) error {
	if username == "" || strings.ContainsAny(username, " \t") {
		return &ValidationError{Field: "username", Reason: "must be non-empty without spaces"}
	}
	if len(username) > 64 {
		return &ValidationError{Field: "username", Reason: "too long"}
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return &ValidationError{Field: "email", Reason: "must be a valid address"}
	}
	if !model.IsValidRole(role) {
		return &ValidationError{Field: "role", Reason: "must be admin, editor or viewer"}
	}
	return nil
}

// dummyHash keeps credential verification roughly constant-time for unknown
// identifiers. It is a real argon2id hash of a random string.
var dummyHash = func() string {
	h, err := auth.Hash(uuid.NewString())
	if err != nil {
		// Hashing only fails if the system entropy source is broken.
		panic(fmt.Sprintf("auth: initializing dummy hash: %v", err))
	}
	return h
}()
