package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
	"github.com/juangracia/booking-mvp-case-study/internal/core/ports"
)

const bookingsCollection = "bookings"

type MongoBookingRepository struct {
	coll *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *MongoBookingRepository {
	return &MongoBookingRepository{coll: db.Collection(bookingsCollection)}
}

// bookingDoc denormalises the resource and user snapshots into the booking
// document; the overlap and listing queries only ever touch this collection.
type bookingDoc struct {
	ID         string      `bson:"_id"`
	ResourceID string      `bson:"resource_id"`
	Resource   resourceDoc `bson:"resource"`
	UserID     string      `bson:"user_id"`
	UserEmail  string      `bson:"user_email"`
	UserRole   string      `bson:"user_role"`
	StartAt    time.Time   `bson:"start_at"`
	EndAt      time.Time   `bson:"end_at"`
	Status     string      `bson:"status"`
	Notes      string      `bson:"notes,omitempty"`
	CreatedAt  time.Time   `bson:"created_at"`
	UpdatedAt  time.Time   `bson:"updated_at"`
}

func toBookingDoc(b *domain.Booking) bookingDoc {
	return bookingDoc{
		ID:         b.ID,
		ResourceID: b.Resource.ID,
		Resource:   toResourceDoc(&b.Resource),
		UserID:     b.User.ID,
		UserEmail:  b.User.Email,
		UserRole:   b.User.Role,
		StartAt:    b.Range.Start,
		EndAt:      b.Range.End,
		Status:     string(b.Status),
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func (d bookingDoc) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:        d.ID,
		Resource:  *d.Resource.toDomain(),
		User:      domain.User{ID: d.UserID, Email: d.UserEmail, Role: d.UserRole},
		Range:     domain.TimeRange{Start: d.StartAt.UTC(), End: d.EndAt.UTC()},
		Status:    domain.BookingStatus(d.Status),
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r *MongoBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if _, err := r.coll.InsertOne(ctx, toBookingDoc(b)); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": b.ID}, toBookingDoc(b))
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *MongoBookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	var doc bookingDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoBookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MongoBookingRepository) List(ctx context.Context, filter ports.ListBookingsFilter) ([]*domain.Booking, error) {
	query := bson.M{}
	if filter.ResourceID != "" {
		query["resource_id"] = filter.ResourceID
	}
	if !filter.StartDate.IsZero() {
		query["end_at"] = bson.M{"$gt": filter.StartDate.UTC()}
	}
	if !filter.EndDate.IsZero() {
		query["start_at"] = bson.M{"$lt": filter.EndDate.UTC()}
	}
	return r.find(ctx, query)
}

func (r *MongoBookingRepository) ListActiveInRange(ctx context.Context, resourceID string, rng domain.TimeRange) ([]*domain.Booking, error) {
	cur, err := r.coll.Find(ctx, activeOverlapQuery(resourceID, rng),
		options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	defer cur.Close(ctx)
	return decodeBookings(ctx, cur)
}

func (r *MongoBookingRepository) ExistsActiveOverlap(ctx context.Context, resourceID string, rng domain.TimeRange) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, activeOverlapQuery(resourceID, rng), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("overlap check: %w", err)
	}
	return n > 0, nil
}

// activeOverlapQuery matches ACTIVE bookings on the resource whose half-open
// range overlaps rng: start_at < rng.End && end_at > rng.Start. Strict
// comparisons keep abutting bookings out of the match.
func activeOverlapQuery(resourceID string, rng domain.TimeRange) bson.M {
	return bson.M{
		"resource_id": resourceID,
		"status":      string(domain.StatusActive),
		"start_at":    bson.M{"$lt": rng.End},
		"end_at":      bson.M{"$gt": rng.Start},
	}
}

func (r *MongoBookingRepository) find(ctx context.Context, query bson.M) ([]*domain.Booking, error) {
	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "start_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cur.Close(ctx)
	return decodeBookings(ctx, cur)
}

func decodeBookings(ctx context.Context, cur *mongo.Cursor) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for cur.Next(ctx) {
		var doc bookingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode booking: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return out, nil
}
