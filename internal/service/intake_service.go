package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"workdesk/api/internal/access"
	"workdesk/api/internal/apperr"
	"workdesk/api/internal/ids"
	"workdesk/api/internal/models"
)

// IntakeService normalizes raw submissions into pending requests. The field
// bag is deliberately loose: request types are heterogeneous, so only the
// type tag is required on the form path.
type IntakeService struct {
	requests RequestStore
	log      zerolog.Logger
}

func NewIntakeService(requests RequestStore, log zerolog.Logger) *IntakeService {
	return &IntakeService{requests: requests, log: log}
}

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
	FileKey string
}

// SubmitContact accepts anonymous callers. When the caller is logged in, the
// submission is linked to their account as well.
func (s *IntakeService) SubmitContact(ctx context.Context, actor access.Context, input ContactInput) (models.Request, error) {
	req := models.Request{
		ID:             ids.New(),
		Kind:           models.RequestKindContact,
		SubmitterName:  input.Name,
		SubmitterEmail: strings.TrimSpace(strings.ToLower(input.Email)),
		Phone:          input.Phone,
		Subject:        strings.TrimSpace(input.Subject),
		Message:        input.Message,
		FileKey:        input.FileKey,
		Status:         models.RequestStatusPending,
	}
	if !actor.Anonymous() {
		id := actor.UserID
		req.SubmitterID = &id
		if req.SubmitterName == "" {
			req.SubmitterName = actor.Name
		}
		if req.SubmitterEmail == "" {
			req.SubmitterEmail = actor.Email
		}
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return models.Request{}, err
	}
	return req, nil
}

type FormInput struct {
	TypeTag string
	Fields  map[string]any
	FileKey string
}

func (s *IntakeService) SubmitForm(ctx context.Context, actor access.Context, input FormInput) (models.Request, error) {
	if !access.CanSubmitRequest(actor, models.RequestKindForm) {
		return models.Request{}, fmt.Errorf("%w: login required", apperr.ErrUnauthorized)
	}

	typeTag := strings.TrimSpace(input.TypeTag)
	if typeTag == "" {
		return models.Request{}, fmt.Errorf("%w: form type is required", apperr.ErrInvalidInput)
	}

	id := actor.UserID
	req := models.Request{
		ID:             ids.New(),
		Kind:           models.RequestKindForm,
		SubmitterID:    &id,
		SubmitterName:  actor.Name,
		SubmitterEmail: actor.Email,
		Subject:        typeTag,
		Fields:         input.Fields,
		FileKey:        input.FileKey,
		Status:         models.RequestStatusPending,
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return models.Request{}, err
	}
	return req, nil
}

// Inbox is the admin triage view over both request kinds.
func (s *IntakeService) Inbox(ctx context.Context, actor access.Context) ([]models.Request, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrUnauthorized
	}
	return s.requests.List(ctx)
}

func (s *IntakeService) ListFor(ctx context.Context, actor access.Context) ([]models.Request, error) {
	if actor.Anonymous() {
		return nil, apperr.ErrUnauthorized
	}
	return s.requests.ListForSubmitter(ctx, actor.UserID, actor.Email, actor.Name)
}

func (s *IntakeService) Get(ctx context.Context, actor access.Context, id string) (models.Request, error) {
	req, err := s.requests.Find(ctx, id)
	if err != nil {
		return models.Request{}, err
	}
	if !access.CanViewRequest(actor, req) {
		return models.Request{}, apperr.ErrUnauthorized
	}
	return req, nil
}

type RequestPatch struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
	Fields  map[string]any
}

func (s *IntakeService) Update(ctx context.Context, actor access.Context, id string, kind models.RequestKind, patch RequestPatch) (models.Request, error) {
	req, err := s.requests.GetByID(ctx, id, kind)
	if err != nil {
		return models.Request{}, err
	}
	if !access.CanViewRequest(actor, req) {
		return models.Request{}, apperr.ErrUnauthorized
	}

	if patch.Name != "" {
		req.SubmitterName = patch.Name
	}
	if patch.Email != "" {
		req.SubmitterEmail = strings.TrimSpace(strings.ToLower(patch.Email))
	}
	if patch.Phone != "" {
		req.Phone = patch.Phone
	}
	if patch.Subject != "" {
		req.Subject = strings.TrimSpace(patch.Subject)
	}
	if patch.Message != "" {
		req.Message = patch.Message
	}
	if patch.Fields != nil {
		req.Fields = patch.Fields
	}

	if err := s.requests.Update(ctx, req); err != nil {
		return models.Request{}, err
	}
	return req, nil
}

// UpdateStatus is the triage action that marks a request without converting
// it into a task.
func (s *IntakeService) UpdateStatus(ctx context.Context, actor access.Context, id string, kind models.RequestKind, status models.RequestStatus) error {
	if !actor.IsAdmin() {
		return apperr.ErrUnauthorized
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, status)
	}
	return s.requests.UpdateStatus(ctx, id, kind, status)
}

func (s *IntakeService) Delete(ctx context.Context, actor access.Context, id string, kind models.RequestKind) error {
	req, err := s.requests.GetByID(ctx, id, kind)
	if err != nil {
		return err
	}
	if !access.CanViewRequest(actor, req) {
		return apperr.ErrUnauthorized
	}
	return s.requests.Delete(ctx, id, kind)
}
