package resolver

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// DateTime implements the DateTime scalar, serialized as RFC 3339 in UTC.
type DateTime struct {
	time.Time
}

func (DateTime) ImplementsGraphQLType(name string) bool {
	return name == "DateTime"
}

func (t *DateTime) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return errors.Wrapf(err, "parse DateTime %q", v)
		}
		t.Time = parsed
		return nil
	case time.Time:
		t.Time = v
		return nil
	default:
		return errors.Errorf("wrong type for DateTime: %T", input)
	}
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
