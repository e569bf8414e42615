package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

const resourcesCollection = "resources"

type MongoResourceRepository struct {
	coll *mongo.Collection
}

func NewResourceRepository(db *mongo.Database) *MongoResourceRepository {
	return &MongoResourceRepository{coll: db.Collection(resourcesCollection)}
}

type resourceDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	Active      bool      `bson:"active"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toResourceDoc(r *domain.Resource) resourceDoc {
	return resourceDoc{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (d resourceDoc) toDomain() *domain.Resource {
	return &domain.Resource{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Active:      d.Active,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *MongoResourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	if _, err := r.coll.InsertOne(ctx, toResourceDoc(resource)); err != nil {
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

func (r *MongoResourceRepository) Update(ctx context.Context, resource *domain.Resource) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": resource.ID}, toResourceDoc(resource))
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

func (r *MongoResourceRepository) FindByID(ctx context.Context, id string) (*domain.Resource, error) {
	var doc resourceDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrResourceNotFound
		}
		return nil, fmt.Errorf("find resource: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoResourceRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Resource, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Resource
	for cur.Next(ctx) {
		var doc resourceDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode resource: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return out, nil
}
