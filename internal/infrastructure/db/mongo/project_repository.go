package mongo

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/solx/solx-api/internal/core/domain"
	"github.com/solx/solx-api/internal/core/ports"
)

const collectionProjects = "projects"

// ProjectRepository implements ports.ProjectRepository using MongoDB.
// Reads join the manager from the users collection.
type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

type projectDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description *string            `bson:"description,omitempty"`
	Type        string             `bson:"type"`
	Status      string             `bson:"status"`
	Location    string             `bson:"location"`
	Capacity    *float64           `bson:"capacity,omitempty"`
	Budget      *float64           `bson:"budget,omitempty"`
	StartDate   time.Time          `bson:"start_date"`
	EndDate     *time.Time         `bson:"end_date,omitempty"`
	ManagerID   primitive.ObjectID `bson:"manager_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`

	// Populated by the $lookup stage only.
	Manager *userDoc `bson:"manager,omitempty"`
}

func (d *projectDoc) toDomain() *domain.Project {
	p := &domain.Project{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Type:        domain.ProjectType(d.Type),
		Status:      domain.ProjectStatus(d.Status),
		Location:    d.Location,
		Capacity:    d.Capacity,
		Budget:      d.Budget,
		StartDate:   d.StartDate.UTC(),
		EndDate:     d.EndDate,
		ManagerID:   d.ManagerID.Hex(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	p.Manager.ID = p.ManagerID
	if d.Manager != nil {
		p.Manager.Name = d.Manager.Name
		p.Manager.Email = d.Manager.Email
	}
	return p
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	managerID, ok := objectID(p.ManagerID)
	if !ok {
		return nil, domain.ErrInvalidManager
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, projectDoc{
		Name:        p.Name,
		Description: p.Description,
		Type:        string(p.Type),
		Status:      string(p.Status),
		Location:    p.Location,
		Capacity:    p.Capacity,
		Budget:      p.Budget,
		StartDate:   p.StartDate.UTC(),
		EndDate:     p.EndDate,
		ManagerID:   managerID,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, oid.Hex())
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs, err := r.aggregate(ctx, withManager(mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
		{{Key: "$limit", Value: 1}},
	}))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrProjectNotFound
	}
	return docs[0].toDomain(), nil
}

// List returns one page, newest first, and the number of matching projects.
func (r *ProjectRepository) List(ctx context.Context, f ports.ListProjectsFilter) ([]*domain.Project, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if f.Status != "" {
		match["status"] = f.Status
	}
	if f.Type != "" {
		match["type"] = f.Type
	}

	total, err := r.col.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	docs, err := r.aggregate(ctx, withManager(mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: pageOffset(f)}},
		{{Key: "$limit", Value: int64(f.Limit)}},
	}))
	if err != nil {
		return nil, 0, err
	}

	projects := make([]*domain.Project, len(docs))
	for i := range docs {
		projects[i] = docs[i].toDomain()
	}
	return projects, total, nil
}

// pageOffset is the number of projects before page f.Page. It saturates
// instead of wrapping negative.
func pageOffset(f ports.ListProjectsFilter) int64 {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	pages, limit := int64(f.Page-1), int64(f.Limit)
	if pages > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return pages * limit
}

// Update applies the non-nil fields of patch and returns the stored result.
func (r *ProjectRepository) Update(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProjectNotFound
	}

	set, err := patchFields(patch)
	if err != nil {
		return nil, err
	}
	set["updated_at"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrProjectNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes used by List.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "manager_id", Value: 1}}},
	})
	return err
}

func (r *ProjectRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]projectDoc, error) {
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate projects: %w", err)
	}
	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return docs, nil
}

// withManager appends the stages that embed the manager document.
func withManager(p mongo.Pipeline) mongo.Pipeline {
	return append(p,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "manager_id",
			"foreignField": "_id",
			"as":           "manager",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$manager",
			"preserveNullAndEmptyArrays": true,
		}}},
	)
}

// patchFields converts a patch into a $set document.
func patchFields(p domain.ProjectPatch) (bson.M, error) {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Type != nil {
		set["type"] = string(*p.Type)
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.Capacity != nil {
		set["capacity"] = *p.Capacity
	}
	if p.Budget != nil {
		set["budget"] = *p.Budget
	}
	if p.StartDate != nil {
		set["start_date"] = p.StartDate.UTC()
	}
	if p.EndDate != nil {
		set["end_date"] = p.EndDate.UTC()
	}
	if p.ManagerID != nil {
		oid, ok := objectID(*p.ManagerID)
		if !ok {
			return nil, domain.ErrInvalidManager
		}
		set["manager_id"] = oid
	}
	return set, nil
}
