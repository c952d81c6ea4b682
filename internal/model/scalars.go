package model

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/uuid"
)

// ErrInvalidUUID is wrapped by UnmarshalUUID when a value is not a canonical UUID.
var ErrInvalidUUID = errors.New("UUID cannot represent value")

// ErrInvalidMemberTypeID is wrapped by MemberTypeID.UnmarshalGQL for unknown tiers.
var ErrInvalidMemberTypeID = errors.New("invalid MemberTypeId")

// MarshalUUID writes id in its canonical textual form.
func MarshalUUID(id uuid.UUID) graphql.Marshaler {
	return graphql.WriterFunc(func(w io.Writer) {
		_, _ = io.WriteString(w, strconv.Quote(id.String()))
	})
}

// UnmarshalUUID parses a UUID argument or variable.
func UnmarshalUUID(v any) (uuid.UUID, error) {
	switch v := v.(type) {
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidUUID, v)
		}
		return id, nil
	case []byte:
		return UnmarshalUUID(string(v))
	case uuid.UUID:
		return v, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidUUID, v)
	}
}
