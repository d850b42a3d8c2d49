package models

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUser_PlainJSON(t *testing.T) {
	user, err := ParseUser(`{"id":"42","email":"ada@example.com","name":"Ada","picture":"https://img/a.png","verified_email":true}`)
	require.NoError(t, err)

	assert.Equal(t, "42", user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.True(t, user.VerifiedEmail)
}

func TestParseUser_PercentEncoded(t *testing.T) {
	raw, err := json.Marshal(User{ID: "7", Email: "bob@example.com", Name: "Bob Smith"})
	require.NoError(t, err)

	user, err := ParseUser(url.PathEscape(string(raw)))
	require.NoError(t, err)

	assert.Equal(t, "Bob Smith", user.Name)
}

func TestParseUser_Malformed(t *testing.T) {
	_, err := ParseUser("{not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse user data")
}

func TestParseUser_Empty(t *testing.T) {
	_, err := ParseUser("   ")
	assert.ErrorIs(t, err, ErrEmptyUser)
}

func TestUser_DisplayNameFallsBackToEmail(t *testing.T) {
	u := &User{Email: "carol@example.com"}
	assert.Equal(t, "carol@example.com", u.DisplayName())

	u.Name = "Carol"
	assert.Equal(t, "Carol", u.DisplayName())
}

func TestParseUser_RejectsProfileWithoutID(t *testing.T) {
	for _, raw := range []string{"null", "{}", `{"email":"ada@example.com"}`, `{"id":"  "}`} {
		t.Run(raw, func(t *testing.T) {
			user, err := ParseUser(raw)
			assert.ErrorIs(t, err, ErrMissingUserID)
			assert.Nil(t, user)
		})
	}
}
