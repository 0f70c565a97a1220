package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const fieldIsDeleted = "isDeleted"

// live adds the soft-delete predicate to filter. Every query in this package
// goes through it so deleted records never leak out of a read or a write.
func live(filter bson.M) bson.M {
	if filter == nil {
		filter = bson.M{}
	}
	filter[fieldIsDeleted] = false
	return filter
}

// liveByID returns the filter for a live record with the given hex id.
// ok is false for malformed ids, which can never match anything.
func liveByID(id string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return live(bson.M{"_id": oid}), true
}

// containsFold matches values containing s, ignoring case. Regex
// metacharacters in s are matched literally.
func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// objectIDs converts the well-formed hex ids and drops the rest.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}
