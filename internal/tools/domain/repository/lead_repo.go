package repository

import (
	"context"

	"corpsuite/internal/tools/domain/model"
)

// LeadRepository defines the interface for CRM lead persistence.
type LeadRepository interface {
	CreateLead(ctx context.Context, lead *model.Lead) error
	GetLeadsByOwner(ctx context.Context, ownerID string) ([]*model.Lead, error)
	GetLeadByID(ctx context.Context, ownerID, id string) (*model.Lead, error)
	UpdateLead(ctx context.Context, lead *model.Lead) error
	DeleteLead(ctx context.Context, ownerID, id string) error
	CountLeads(ctx context.Context) (int64, error)
}
