package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBaseModelBeforeCreate(t *testing.T) {
	t.Run("assigns id when empty", func(t *testing.T) {
		base := &BaseModel{}
		assert.NoError(t, base.BeforeCreate(nil))
		assert.NotEqual(t, uuid.Nil, base.ID)
	})

	t.Run("keeps existing id", func(t *testing.T) {
		id := uuid.New()
		base := &BaseModel{ID: id}
		assert.NoError(t, base.BeforeCreate(nil))
		assert.Equal(t, id, base.ID)
	})
}

func TestCredentialDisplayName(t *testing.T) {
	cases := []struct {
		name string
		cred Credential
		want string
	}{
		{"full name", Credential{Username: "jdoe", FirstName: "John", LastName: "Doe"}, "John Doe"},
		{"first only", Credential{Username: "jdoe", FirstName: "John"}, "John"},
		{"last only", Credential{Username: "jdoe", LastName: "Doe"}, "Doe"},
		{"username fallback", Credential{Username: "jdoe"}, "jdoe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cred.DisplayName())
		})
	}
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "organizations", Organization{}.TableName())
	assert.Equal(t, "credentials", Credential{}.TableName())
	assert.Equal(t, "member_profiles", MemberProfile{}.TableName())
	assert.Equal(t, "auth_tokens", AuthToken{}.TableName())
}
