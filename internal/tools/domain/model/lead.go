package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrLeadNotFound = errors.New("lead not found")

// Lead is a CRM sales lead, scoped to the account that created it.
type Lead struct {
	ID        string             `json:"id" bson:"id"`
	ObjectID  primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	OwnerID   string             `json:"-" bson:"owner_id"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Company   string             `json:"company,omitempty" bson:"company,omitempty"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Status    string             `json:"status" bson:"status"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Lead statuses
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusClosed    = "closed"
)
