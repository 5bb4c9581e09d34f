package instagram

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	igerrors "shutter/pkg/errors"
)

// requiredField is a path inside the user record that must be present
// with the given JSON type
type requiredField struct {
	path  string
	types []gjson.Type
}

var requiredProfileFields = []requiredField{
	{"username", []gjson.Type{gjson.String}},
	{"is_private", []gjson.Type{gjson.True, gjson.False}},
	{"edge_owner_to_timeline_media", []gjson.Type{gjson.JSON}},
}

var requiredNodeFields = []requiredField{
	{"node.display_url", []gjson.Type{gjson.String}},
	{"node.taken_at_timestamp", []gjson.Type{gjson.Number}},
}

// DecodeProfile locates the user record inside the shared data blob and
// decodes it.
//
// Malformed JSON and user records with missing or mistyped required
// fields fail with ErrorTypeProfileJSONParse. A blob without the
// entry_data.ProfilePage[0].graphql.user path fails with
// ErrorTypeProfileJSONInvalid.
func DecodeProfile(blob string) (*RawProfile, error) {
	if !gjson.Valid(blob) {
		return nil, igerrors.NewProfileJSONParseError(errors.New("malformed shared data"))
	}

	// gjson also resolves ".0" against an object key, so require a list
	if !gjson.Get(blob, ProfilePagesPath).IsArray() {
		return nil, igerrors.NewProfileJSONInvalid(fmt.Errorf("%s is not a list", ProfilePagesPath))
	}

	user := gjson.Get(blob, ProfilePath)
	if !user.Exists() || user.Type == gjson.Null {
		return nil, igerrors.NewProfileJSONInvalid(fmt.Errorf("no value at %s", ProfilePath))
	}

	if err := validateUser(user); err != nil {
		return nil, igerrors.NewProfileJSONParseError(err)
	}

	var raw RawProfile
	if err := json.Unmarshal([]byte(user.Raw), &raw); err != nil {
		return nil, igerrors.NewProfileJSONParseError(err)
	}

	return &raw, nil
}

func validateUser(user gjson.Result) error {
	if !user.IsObject() {
		return fmt.Errorf("user record is %s, not an object", user.Type)
	}

	for _, field := range requiredProfileFields {
		if err := checkField(user, field, ""); err != nil {
			return err
		}
	}

	if user.Get("username").String() == "" {
		return errors.New("field username is empty")
	}

	edges := user.Get("edge_owner_to_timeline_media.edges")
	if !edges.IsArray() {
		return errors.New("missing required field edge_owner_to_timeline_media.edges")
	}

	var err error
	index := 0
	edges.ForEach(func(_, edge gjson.Result) bool {
		prefix := fmt.Sprintf("edge_owner_to_timeline_media.edges.%d.", index)
		for _, field := range requiredNodeFields {
			if err = checkField(edge, field, prefix); err != nil {
				return false
			}
		}
		index++
		return true
	})
	return err
}

func checkField(parent gjson.Result, field requiredField, prefix string) error {
	value := parent.Get(field.path)
	if !value.Exists() || value.Type == gjson.Null {
		return fmt.Errorf("missing required field %s%s", prefix, field.path)
	}
	for _, t := range field.types {
		if value.Type == t {
			return nil
		}
	}
	return fmt.Errorf("field %s%s has type %s", prefix, field.path, value.Type)
}
