// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/parkir/lib/kvstore"
)

// Backend is the key/value persistence the store writes through.
// *kvstore.Store satisfies it.
type Backend interface {
	Get(ctx context.Context, key string, value any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// Store loads and saves both settings aggregates.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// NewStore wraps backend. A nil logger discards.
func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{backend: backend, logger: logger}
}

// Ticket returns the stored ticket settings merged over defaults. Any
// storage failure is logged and the defaults are returned: a ticket
// must always be printable.
func (s *Store) Ticket(ctx context.Context) TicketSettings {
	loaded := DefaultTicketSettings()
	if err := s.backend.Get(ctx, TicketKey, &loaded); err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logger.Warn("loading ticket settings failed, using defaults", "error", err)
		}
		return DefaultTicketSettings()
	}
	return loaded
}

// SaveTicket validates and overwrites the ticket settings.
func (s *Store) SaveTicket(ctx context.Context, value TicketSettings) error {
	value.Version = TicketSettingsVersion
	if err := value.Validate(); err != nil {
		return fmt.Errorf("ticket settings: %w", err)
	}
	if err := s.Ticket(ctx).CanModify(); err != nil {
		return err
	}
	if err := s.backend.Set(ctx, TicketKey, value); err != nil {
		return fmt.Errorf("saving ticket settings: %w", err)
	}
	s.logger.Info("ticket settings saved", "company", value.CompanyName)
	return nil
}

// ResetTicket removes stored ticket settings so defaults apply again.
func (s *Store) ResetTicket(ctx context.Context) error {
	if err := s.backend.Delete(ctx, TicketKey); err != nil {
		return fmt.Errorf("resetting ticket settings: %w", err)
	}
	s.logger.Info("ticket settings reset to defaults")
	return nil
}

// Connectivity returns the stored connectivity settings, or an empty
// override when none are stored or storage fails.
func (s *Store) Connectivity(ctx context.Context) ConnectivitySettings {
	loaded := ConnectivitySettings{Version: ConnectivitySettingsVersion}
	if err := s.backend.Get(ctx, ConnectivityKey, &loaded); err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logger.Warn("loading connectivity settings failed, using default endpoint", "error", err)
		}
		return ConnectivitySettings{Version: ConnectivitySettingsVersion}
	}
	return loaded
}

// SaveConnectivity normalizes, validates and overwrites the override.
// An empty APIBaseURL clears the override.
func (s *Store) SaveConnectivity(ctx context.Context, value ConnectivitySettings) error {
	value.Version = ConnectivitySettingsVersion
	value.APIBaseURL = NormalizeBaseURL(value.APIBaseURL)
	if err := value.Validate(); err != nil {
		return fmt.Errorf("connectivity settings: %w", err)
	}
	if err := s.Connectivity(ctx).CanModify(); err != nil {
		return err
	}
	if value.APIBaseURL == "" {
		return s.ResetConnectivity(ctx)
	}
	if err := s.backend.Set(ctx, ConnectivityKey, value); err != nil {
		return fmt.Errorf("saving connectivity settings: %w", err)
	}
	s.logger.Info("api base url override saved", "url", value.APIBaseURL)
	return nil
}

// ResetConnectivity removes the override.
func (s *Store) ResetConnectivity(ctx context.Context) error {
	if err := s.backend.Delete(ctx, ConnectivityKey); err != nil {
		return fmt.Errorf("resetting connectivity settings: %w", err)
	}
	s.logger.Info("api base url override cleared")
	return nil
}
