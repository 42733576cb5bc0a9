package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"hurdl/internal/model"
)

// ErrStorage wraps every failure of the response store
var ErrStorage = errors.New("response store unavailable")

// ErrDuplicateResponse is returned by Insert when the response id is already stored
var ErrDuplicateResponse = errors.New("response already stored")

// ErrUnknownField is returned by Distinct for fields other than department and location
var ErrUnknownField = errors.New("unknown distinct field")

// Fields that support Distinct
const (
	FieldDepartment = "department"
	FieldLocation   = "location"
)

// ResponseRepo persists check-in responses. Responses are insert-only and
// keyed by ResponseID, so a repeated Insert fails with ErrDuplicateResponse.
type ResponseRepo interface {
	Insert(ctx context.Context, r *model.Response) error
	// Query returns matching responses ordered by timestamp
	Query(ctx context.Context, filter model.ResponseFilter) ([]*model.Response, error)
	// Distinct returns the distinct non-empty values of department or location
	Distinct(ctx context.Context, field string) ([]string, error)
}

type mongoResponseRepo struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMongoResponseRepo creates the MongoDB response repository
func NewMongoResponseRepo(db *mongo.Database, logger *zap.Logger) ResponseRepo {
	repo := &mongoResponseRepo{
		collection: db.Collection("responses"),
		logger:     logger,
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *mongoResponseRepo) ensureIndexes(ctx context.Context) {
	r.createIndex(ctx, bson.D{{Key: "timestamp", Value: 1}})
	r.createIndex(ctx, bson.D{{Key: "department", Value: 1}, {Key: "timestamp", Value: 1}})
	r.createIndex(ctx, bson.D{{Key: "location", Value: 1}, {Key: "timestamp", Value: 1}})
}

func (r *mongoResponseRepo) createIndex(ctx context.Context, keys bson.D) {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys})
	if err != nil {
		r.logger.Warn("failed to create index", zap.String("collection", r.collection.Name()), zap.Error(err))
	}
}

func (r *mongoResponseRepo) Insert(ctx context.Context, resp *model.Response) error {
	if _, err := r.collection.InsertOne(ctx, resp); err != nil {
		return mongoInsertError(resp.ResponseID, err)
	}
	return nil
}

func mongoInsertError(id string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateResponse, id)
	}
	return fmt.Errorf("%w: insert response %s: %w", ErrStorage, id, err)
}

func (r *mongoResponseRepo) Query(ctx context.Context, filter model.ResponseFilter) ([]*model.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: query responses: %w", ErrStorage, err)
	}
	defer cursor.Close(ctx)

	responses := []*model.Response{}
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, fmt.Errorf("%w: decode responses: %w", ErrStorage, err)
	}
	return responses, nil
}

func (r *mongoResponseRepo) Distinct(ctx context.Context, field string) ([]string, error) {
	if !distinctField(field) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	values, err := r.collection.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: distinct %s: %w", ErrStorage, field, err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// mongoFilter translates a response filter into a query document
func mongoFilter(f model.ResponseFilter) bson.M {
	q := bson.M{}
	if f.Start != nil || f.End != nil {
		ts := bson.M{}
		if f.Start != nil {
			ts["$gte"] = *f.Start
		}
		if f.End != nil {
			ts["$lte"] = *f.End
		}
		q["timestamp"] = ts
	}
	if d := f.DepartmentFilter(); d != "" {
		q["department"] = d
	}
	if l := f.LocationFilter(); l != "" {
		q["location"] = l
	}
	return q
}

func distinctField(field string) bool {
	return field == FieldDepartment || field == FieldLocation
}
