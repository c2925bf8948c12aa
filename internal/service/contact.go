package service

import (
	"context"
	"errors"

	"github.com/ronnysenna/envio-massa-sub000/internal/db"
	"github.com/ronnysenna/envio-massa-sub000/internal/importer"
	"github.com/ronnysenna/envio-massa-sub000/internal/repository"

	"github.com/google/uuid"
)

// Service-level errors surfaced to handlers
var (
	// ErrInvalidPhone means the phone contained no digits after
	// normalization.
	ErrInvalidPhone = errors.New("telefone must contain at least one digit")
	// ErrPhoneOwnedByOther is returned under the reject conflict policy
	// when the phone key belongs to another user's contact.
	ErrPhoneOwnedByOther = errors.New("telefone already registered to another user")
)

// ContactService implements contact CRUD with the same phone-key semantics
// as the import pipeline: a single add referencing an existing phone merges
// into the existing contact instead of failing.
type ContactService struct {
	contacts *repository.ContactRepository
	policy   importer.ConflictPolicy
}

func NewContactService(contacts *repository.ContactRepository, policy importer.ConflictPolicy) *ContactService {
	if policy != importer.PolicyReject {
		policy = importer.PolicyReassign
	}
	return &ContactService{contacts: contacts, policy: policy}
}

// Create adds a contact for the user. When the normalized phone already
// identifies a contact, the existing record is updated (name and owner)
// under the reassign policy, mirroring a one-row import.
func (s *ContactService) Create(ctx context.Context, ownerID uuid.UUID, nome, telefoneRaw string) (*repository.Contact, error) {
	telefone := importer.NormalizePhone(telefoneRaw)
	if telefone == "" {
		return nil, ErrInvalidPhone
	}

	existing, err := s.contacts.FindByPhone(ctx, telefone)
	switch {
	case err == nil:
		if s.policy == importer.PolicyReject && existing.OwnerID != ownerID {
			return nil, ErrPhoneOwnedByOther
		}
		return s.contacts.Update(ctx, existing.ID, nome, ownerID)
	case errors.Is(err, db.ErrNotFound):
		return s.contacts.Create(ctx, nome, telefone, ownerID)
	default:
		return nil, err
	}
}

// Get retrieves one of the user's contacts
func (s *ContactService) Get(ctx context.Context, id, ownerID uuid.UUID) (*repository.Contact, error) {
	return s.contacts.GetByID(ctx, id, ownerID)
}

// List retrieves a page of the user's contacts plus the total count
func (s *ContactService) List(ctx context.Context, params repository.ListContactsParams) ([]repository.Contact, int64, error) {
	contacts, err := s.contacts.ListByOwner(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.contacts.CountByOwner(ctx, params.OwnerID, params.Search)
	if err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// Update edits name and phone of one of the user's contacts. The phone is
// normalized before persisting so the uniqueness key stays canonical.
func (s *ContactService) Update(ctx context.Context, id, ownerID uuid.UUID, nome, telefoneRaw string) (*repository.Contact, error) {
	telefone := importer.NormalizePhone(telefoneRaw)
	if telefone == "" {
		return nil, ErrInvalidPhone
	}
	return s.contacts.UpdateDetails(ctx, id, ownerID, nome, telefone)
}

// Delete removes one of the user's contacts
func (s *ContactService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.contacts.Delete(ctx, id, ownerID)
}
