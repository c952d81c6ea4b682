package model

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalUUID(t *testing.T) {
	want := uuid.MustParse("0b6a2b0e-3f3c-4c4d-9d3c-6b0f4a3f2e11")

	got, err := UnmarshalUUID(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = UnmarshalUUID("not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidUUID)
	assert.Equal(t, `UUID cannot represent value: "not-a-uuid"`, err.Error())

	_, err = UnmarshalUUID(42)
	assert.ErrorIs(t, err, ErrInvalidUUID)
}

func TestMarshalUUID(t *testing.T) {
	id := uuid.MustParse("0b6a2b0e-3f3c-4c4d-9d3c-6b0f4a3f2e11")

	var buf bytes.Buffer
	MarshalUUID(id).MarshalGQL(&buf)
	assert.Equal(t, `"0b6a2b0e-3f3c-4c4d-9d3c-6b0f4a3f2e11"`, buf.String())
}

func TestMemberTypeIDGQL(t *testing.T) {
	var id MemberTypeID
	require.NoError(t, id.UnmarshalGQL("BUSINESS"))
	assert.Equal(t, MemberTypeBusiness, id)

	assert.Error(t, id.UnmarshalGQL("GOLD"))
	assert.Error(t, id.UnmarshalGQL(1))

	var buf bytes.Buffer
	MemberTypeBasic.MarshalGQL(&buf)
	assert.Equal(t, `"BASIC"`, buf.String())
}
