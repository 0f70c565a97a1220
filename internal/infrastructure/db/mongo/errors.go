package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/usermgmt/user-service/internal/core/domain"
)

var dupIndexPattern = regexp.MustCompile(`index: (\S+) dup key`)

// indexFields maps unique index names to the field they protect.
var indexFields = map[string]string{
	indexRoleName:       "name",
	indexUsernameGlobal: "username",
	indexUsernameLive:   "username",
	indexEmailGlobal:    "email",
	indexEmailLive:      "email",
}

// translateWriteError turns a unique index violation into
// *domain.DuplicateKeyError naming the offending field. Other errors are
// returned unchanged.
func translateWriteError(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return &domain.DuplicateKeyError{Field: duplicateField(err.Error())}
}

func duplicateField(msg string) string {
	m := dupIndexPattern.FindStringSubmatch(msg)
	if m == nil {
		return ""
	}
	return indexFields[m[1]]
}
