package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UniquenessPolicy selects how username and email uniqueness treats
// soft-deleted users.
type UniquenessPolicy string

const (
	// UniqueGlobal keeps a username or email taken forever, even after the
	// user is deleted.
	UniqueGlobal UniquenessPolicy = "global"
	// UniqueLive only enforces uniqueness among live users.
	UniqueLive UniquenessPolicy = "live"
)

const (
	indexRoleName       = "name_live_unique"
	indexUsernameGlobal = "username_unique"
	indexUsernameLive   = "username_live_unique"
	indexEmailGlobal    = "email_unique"
	indexEmailLive      = "email_live_unique"
	indexCreatedAt      = "created_at_desc"

	codeNamespaceNotFound = 26
	codeIndexNotFound     = 27
)

// ParseUniquenessPolicy accepts "global" and "live".
func ParseUniquenessPolicy(s string) (UniquenessPolicy, error) {
	switch p := UniquenessPolicy(s); p {
	case UniqueGlobal, UniqueLive:
		return p, nil
	}
	return "", fmt.Errorf("unknown uniqueness policy %q (want global or live)", s)
}

// EnsureIndexes creates the unique and sort indexes both collections rely on.
// Indexes belonging to the other uniqueness policy are dropped so switching
// policies takes effect on the next start.
func EnsureIndexes(ctx context.Context, db *mongo.Database, policy UniquenessPolicy) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	liveOnly := bson.M{fieldIsDeleted: false}

	roles := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName(indexRoleName).SetUnique(true).SetPartialFilterExpression(liveOnly),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName(indexCreatedAt),
		},
	}
	if _, err := db.Collection(collectionRoles).Indexes().CreateMany(ctx, roles); err != nil {
		return fmt.Errorf("role indexes: %w", err)
	}

	username := options.Index().SetUnique(true)
	email := options.Index().SetUnique(true)
	var stale []string
	if policy == UniqueLive {
		username.SetName(indexUsernameLive).SetPartialFilterExpression(liveOnly)
		email.SetName(indexEmailLive).SetPartialFilterExpression(liveOnly)
		stale = []string{indexUsernameGlobal, indexEmailGlobal}
	} else {
		username.SetName(indexUsernameGlobal)
		email.SetName(indexEmailGlobal)
		stale = []string{indexUsernameLive, indexEmailLive}
	}

	usersIdx := db.Collection(collectionUsers).Indexes()
	for _, name := range stale {
		if _, err := usersIdx.DropOne(ctx, name); err != nil && !missingIndex(err) {
			return fmt.Errorf("drop index %s: %w", name, err)
		}
	}

	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: username},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: email},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName(indexCreatedAt),
		},
	}
	if _, err := usersIdx.CreateMany(ctx, users); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	return nil
}

func missingIndex(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == codeIndexNotFound || cmdErr.Code == codeNamespaceNotFound
	}
	return false
}
