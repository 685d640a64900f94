package mongodb

import (
	"context"
	"time"

	"corpsuite/internal/tools/domain/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLeadRepository implements LeadRepository using MongoDB
type MongoLeadRepository struct {
	leads *mongo.Collection
}

// NewMongoLeadRepository creates the repository and its indexes.
func NewMongoLeadRepository(db *mongo.Database) (*MongoLeadRepository, error) {
	repo := &MongoLeadRepository{leads: db.Collection("leads")}

	ctx := context.Background()

	ownerIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
	}
	if _, err := repo.leads.Indexes().CreateOne(ctx, ownerIndex); err != nil {
		return nil, err
	}

	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.leads.Indexes().CreateOne(ctx, idIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreateLead inserts a new lead, filling defaults.
func (r *MongoLeadRepository) CreateLead(ctx context.Context, lead *model.Lead) error {
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.Status == "" {
		lead.Status = model.LeadStatusNew
	}

	_, err := r.leads.InsertOne(ctx, lead)
	return err
}

// GetLeadsByOwner lists leads for an account, newest first.
func (r *MongoLeadRepository) GetLeadsByOwner(ctx context.Context, ownerID string) ([]*model.Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.leads.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var leads []*model.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// GetLeadByID fetches one lead belonging to the owner.
func (r *MongoLeadRepository) GetLeadByID(ctx context.Context, ownerID, id string) (*model.Lead, error) {
	var lead model.Lead
	err := r.leads.FindOne(ctx, bson.M{"owner_id": ownerID, "id": id}).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrLeadNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// UpdateLead replaces the stored lead, keeping owner scoping.
func (r *MongoLeadRepository) UpdateLead(ctx context.Context, lead *model.Lead) error {
	lead.UpdatedAt = time.Now()

	result, err := r.leads.ReplaceOne(ctx, bson.M{"owner_id": lead.OwnerID, "id": lead.ID}, lead)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return model.ErrLeadNotFound
	}
	return nil
}

// DeleteLead removes one lead belonging to the owner.
func (r *MongoLeadRepository) DeleteLead(ctx context.Context, ownerID, id string) error {
	result, err := r.leads.DeleteOne(ctx, bson.M{"owner_id": ownerID, "id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return model.ErrLeadNotFound
	}
	return nil
}

// CountLeads returns the total lead count across all accounts.
func (r *MongoLeadRepository) CountLeads(ctx context.Context) (int64, error) {
	return r.leads.CountDocuments(ctx, bson.M{})
}
