package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/solx/solx-api/internal/core/domain"
)

const collectionAccessRequests = "access_requests"

// AccessRequestRepository implements ports.AccessRequestRepository using MongoDB.
type AccessRequestRepository struct {
	col *mongo.Collection
}

func NewAccessRequestRepository(db *mongo.Database) *AccessRequestRepository {
	return &AccessRequestRepository{col: db.Collection(collectionAccessRequests)}
}

type accessRequestDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Company   string             `bson:"company"`
	Message   string             `bson:"message"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *AccessRequestRepository) Create(ctx context.Context, req *domain.AccessRequest) (*domain.AccessRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, accessRequestDoc{
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		Message:   req.Message,
		Status:    req.Status,
		CreatedAt: req.CreatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert access request: %w", err)
	}

	created := *req
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}
