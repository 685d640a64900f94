package usecase

import (
	"context"
	"strings"

	apperrors "corpsuite/internal/shared/errors"
	"corpsuite/internal/shared/logger"
	"corpsuite/internal/tools/domain/model"
	"corpsuite/internal/tools/domain/repository"
)

// CRMUsecase implements the lead management logic.
type CRMUsecase struct {
	repo repository.LeadRepository
	log  logger.Logger
}

// NewCRMUsecase creates a new CRM usecase.
func NewCRMUsecase(repo repository.LeadRepository, log logger.Logger) *CRMUsecase {
	return &CRMUsecase{repo: repo, log: log.WithComponent("crm")}
}

// CreateLead validates and stores a new lead for the owner.
func (uc *CRMUsecase) CreateLead(ctx context.Context, ownerID string, lead *model.Lead) (*model.Lead, error) {
	if ownerID == "" {
		return nil, apperrors.NewValidationError("owner ID is required")
	}
	if strings.TrimSpace(lead.Name) == "" {
		return nil, apperrors.NewValidationError("lead name is required")
	}
	if strings.TrimSpace(lead.Email) == "" {
		return nil, apperrors.NewValidationError("lead email is required")
	}

	lead.OwnerID = ownerID
	lead.Name = strings.TrimSpace(lead.Name)
	lead.Email = strings.TrimSpace(lead.Email)

	if err := uc.repo.CreateLead(ctx, lead); err != nil {
		return nil, apperrors.NewInternalError("failed to create lead").WithCause(err)
	}

	uc.log.WithFields(map[string]interface{}{"lead_id": lead.ID, "owner_id": ownerID}).
		Info("Lead created")
	return lead, nil
}

// ListLeads returns the owner's leads, newest first.
func (uc *CRMUsecase) ListLeads(ctx context.Context, ownerID string) ([]*model.Lead, error) {
	if ownerID == "" {
		return nil, apperrors.NewValidationError("owner ID is required")
	}
	leads, err := uc.repo.GetLeadsByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list leads").WithCause(err)
	}
	return leads, nil
}

// UpdateLeadStatus moves a lead through the pipeline.
func (uc *CRMUsecase) UpdateLeadStatus(ctx context.Context, ownerID, leadID, status string) (*model.Lead, error) {
	switch status {
	case model.LeadStatusNew, model.LeadStatusContacted, model.LeadStatusQualified, model.LeadStatusClosed:
	default:
		return nil, apperrors.NewValidationError("unknown lead status: " + status)
	}

	lead, err := uc.repo.GetLeadByID(ctx, ownerID, leadID)
	if err != nil {
		return nil, err
	}

	lead.Status = status
	if err := uc.repo.UpdateLead(ctx, lead); err != nil {
		return nil, apperrors.NewInternalError("failed to update lead").WithCause(err)
	}
	return lead, nil
}

// DeleteLead removes a lead from the owner's pipeline.
func (uc *CRMUsecase) DeleteLead(ctx context.Context, ownerID, leadID string) error {
	return uc.repo.DeleteLead(ctx, ownerID, leadID)
}
