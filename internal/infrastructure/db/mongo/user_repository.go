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

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"username"`
	Password   string             `bson:"password"`
	Email      string             `bson:"email"`
	FullName   string             `bson:"fullName"`
	AvatarURL  string             `bson:"avatarUrl"`
	Status     bool               `bson:"status"`
	Role       primitive.ObjectID `bson:"role"`
	LoginCount int                `bson:"loginCount"`
	IsDeleted  bool               `bson:"isDeleted"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *domain.User {
	u := &domain.User{
		ID:         d.ID.Hex(),
		Username:   d.Username,
		Password:   d.Password,
		Email:      d.Email,
		FullName:   d.FullName,
		AvatarURL:  d.AvatarURL,
		Status:     d.Status,
		LoginCount: d.LoginCount,
		IsDeleted:  d.IsDeleted,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
	if !d.Role.IsZero() {
		u.RoleID = d.Role.Hex()
	}
	return u
}

func roleRef(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidReference
	}
	return oid, nil
}

// Create inserts a live user. Username and email collisions surface as
// *domain.DuplicateKeyError from the unique indexes.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	role, err := roleRef(user.RoleID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDocument{
		ID:         primitive.NewObjectID(),
		Username:   user.Username,
		Password:   user.Password,
		Email:      user.Email,
		FullName:   user.FullName,
		AvatarURL:  user.AvatarURL,
		Status:     user.Status,
		Role:       role,
		LoginCount: user.LoginCount,
		CreatedAt:  user.CreatedAt.Truncate(time.Millisecond),
		UpdatedAt:  user.UpdatedAt.Truncate(time.Millisecond),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, translateWriteError(err)
	}
	return doc.toDomain(), nil
}

// listFilter builds the query for List. Both substrings are optional and
// combine with AND.
func listFilter(f ports.ListUsersFilter) bson.M {
	filter := bson.M{}
	if f.Username != "" {
		filter["username"] = containsFold(f.Username)
	}
	if f.FullName != "" {
		filter["fullName"] = containsFold(f.FullName)
	}
	return live(filter)
}

func (r *UserRepository) List(ctx context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(newestFirst).
		SetSkip(f.Page.Skip()).
		SetLimit(int64(f.Page.Limit)))
	if err != nil {
		return nil, 0, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}
	out := make([]*domain.User, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, total, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	filter, ok := liveByID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, filter)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, live(bson.M{"username": username}))
}

func (r *UserRepository) FindByEmailAndUsername(ctx context.Context, email, username string) (*domain.User, error) {
	return r.findOne(ctx, live(bson.M{"email": email, "username": username}))
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// updateSet translates the non-nil fields of update into a $set document.
func updateSet(update ports.UserUpdate) (bson.M, error) {
	set := bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.Password != nil {
		set["password"] = *update.Password
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.FullName != nil {
		set["fullName"] = *update.FullName
	}
	if update.AvatarURL != nil {
		set["avatarUrl"] = *update.AvatarURL
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.RoleID != nil {
		role, err := roleRef(*update.RoleID)
		if err != nil {
			return nil, err
		}
		set["role"] = role
	}
	if update.LoginCount != nil {
		set["loginCount"] = *update.LoginCount
	}
	return set, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	set, err := updateSet(update)
	if err != nil {
		return nil, err
	}
	return r.findOneAndSet(ctx, id, set)
}

// SoftDelete flags a live user as deleted. The document stays in place.
func (r *UserRepository) SoftDelete(ctx context.Context, id string) (*domain.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{
		fieldIsDeleted: true,
		"updatedAt":    time.Now().UTC().Truncate(time.Millisecond),
	})
}

func (r *UserRepository) findOneAndSet(ctx context.Context, id string, set bson.M) (*domain.User, error) {
	filter, ok := liveByID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, translateWriteError(err)
	}
	return doc.toDomain(), nil
}
