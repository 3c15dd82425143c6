// Package service exposes the consumer-facing mutation operations. It is
// a thin layer over the storage backend that adds the domain stamping
// rules and the confirmation gate for irreversible operations.
package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"imobi/server/internal/models"
	"imobi/server/internal/store"
)

// Confirmer answers whether the calling context approved a destructive
// operation. Prompting the user is presentation's job; the core only
// requires that the gate exists.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// ErrNotConfirmed is returned when a destructive operation is declined.
var ErrNotConfirmed = errors.New("operation not confirmed")

// Destructive-operation prompts, kept with the operations they gate.
const (
	promptDelete  = "Tem certeza que deseja excluir este imóvel?"
	promptClear   = "ATENÇÃO: Isso apagará TODOS os imóveis da lista. Deseja continuar?"
	promptRestore = "Isso irá restaurar os dados de exemplo e apagar as alterações atuais. Deseja continuar?"
)

// Form-status notices surfaced to the caller.
const (
	noticeFormInReview = "Ficha de cadastro marcada como em andamento."
	noticeFormApproved = "Ficha de cadastro aprovada."
)

// Service wires the backend to its consumers.
type Service struct {
	backend store.Backend
	confirm Confirmer
	logger  *logrus.Logger
}

// New creates a service over the injected backend. The confirmer gates
// delete, clear-all and restore-defaults identically.
func New(backend store.Backend, confirm Confirmer, logger *logrus.Logger) *Service {
	return &Service{
		backend: backend,
		confirm: confirm,
		logger:  logger,
	}
}

// Subscribe delegates to the backend's change notification.
func (s *Service) Subscribe(handler store.Handler) (store.Unsubscribe, error) {
	return s.backend.Subscribe(handler)
}

// Create persists a new property. Id, LastUpdated and defaults are filled
// by the backend.
func (s *Service) Create(ctx context.Context, p models.Property) error {
	return s.backend.Create(ctx, p)
}

// Update merges arbitrary fields into the record.
func (s *Service) Update(ctx context.Context, id string, patch models.Patch) error {
	return s.backend.Update(ctx, id, patch)
}

// SetStatus is the quick status change. Any status may be set from any
// status; there is no transition restriction.
func (s *Service) SetStatus(ctx context.Context, id string, status models.Status) error {
	return s.backend.Update(ctx, id, models.Patch{Status: &status})
}

// SetFormStatus updates the paperwork state and always stamps the form
// timestamp alongside it. The returned notice is non-empty when the new
// state warrants telling the user; surfacing it is the caller's job.
func (s *Service) SetFormStatus(ctx context.Context, id string, formStatus models.FormStatus) (string, error) {
	now := models.NowMillis()
	err := s.backend.Update(ctx, id, models.Patch{
		FormStatus:  &formStatus,
		FormUpdated: &now,
	})
	if err != nil {
		return "", err
	}

	switch formStatus {
	case models.FormInReview:
		return noticeFormInReview, nil
	case models.FormApproved:
		return noticeFormApproved, nil
	default:
		return "", nil
	}
}

// Delete removes the record after confirmation.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !s.confirm.Confirm(promptDelete) {
		return ErrNotConfirmed
	}
	return s.backend.Remove(ctx, id)
}

// ClearAll empties the partition after confirmation. Irreversible.
func (s *Service) ClearAll(ctx context.Context) error {
	if !s.confirm.Confirm(promptClear) {
		return ErrNotConfirmed
	}
	s.logger.Warn("Clearing all properties")
	return s.backend.Clear(ctx)
}

// RestoreDefaults replaces the partition with the seed set after
// confirmation. Irreversible.
func (s *Service) RestoreDefaults(ctx context.Context) error {
	if !s.confirm.Confirm(promptRestore) {
		return ErrNotConfirmed
	}
	s.logger.Warn("Restoring default properties")
	return s.backend.RestoreDefaults(ctx)
}
