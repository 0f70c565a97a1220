package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/usermgmt/user-service/internal/core/domain"
	"github.com/usermgmt/user-service/internal/core/ports"
)

const collectionRoles = "roles"

// newestFirst is the listing order for both collections. _id breaks ties
// between records created in the same millisecond.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type roleDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	IsDeleted   bool               `bson:"isDeleted"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *roleDocument) toDomain() *domain.Role {
	return &domain.Role{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		IsDeleted:   d.IsDeleted,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// Create inserts a live role and returns it with its generated id.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := roleDocument{
		ID:          primitive.NewObjectID(),
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt.Truncate(time.Millisecond),
		UpdatedAt:   role.UpdatedAt.Truncate(time.Millisecond),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, translateWriteError(err)
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) List(ctx context.Context, page ports.PageRequest) ([]*domain.Role, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := live(nil)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count roles: %w", err)
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	roles, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	filter, ok := liveByID(id)
	if !ok {
		return nil, domain.ErrRoleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Role, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Role{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, live(bson.M{"_id": bson.M{"$in": oids}}))
}

func (r *RoleRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*domain.Role, error) {
	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []roleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	out := make([]*domain.Role, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// Update sets the given fields on a live role and returns the new state.
func (r *RoleRepository) Update(ctx context.Context, id string, update ports.RoleUpdate) (*domain.Role, error) {
	set := bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	return r.findOneAndSet(ctx, id, set)
}

// SoftDelete flags a live role as deleted. The document stays in place.
func (r *RoleRepository) SoftDelete(ctx context.Context, id string) (*domain.Role, error) {
	return r.findOneAndSet(ctx, id, bson.M{
		fieldIsDeleted: true,
		"updatedAt":    time.Now().UTC().Truncate(time.Millisecond),
	})
}

func (r *RoleRepository) findOneAndSet(ctx context.Context, id string, set bson.M) (*domain.Role, error) {
	filter, ok := liveByID(id)
	if !ok {
		return nil, domain.ErrRoleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDocument
	err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, translateWriteError(err)
	}
	return doc.toDomain(), nil
}
