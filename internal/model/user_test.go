package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, time.May, 10, 15, 30, 0, 0, time.UTC)

func validUser() *User {
	b := NewDate(2000, time.January, 1)
	return &User{Email: "jdoe@example.com", Login: "jdoe", Name: "John", Birthday: &b}
}

func TestValidateUser_BlankNameDefaultsToLogin(t *testing.T) {
	for _, name := range []string{"", "   "} {
		u := validUser()
		u.Name = name
		require.NoError(t, ValidateUser(u, today))
		assert.Equal(t, "jdoe", u.Name)
	}
}

func TestValidateUser_KeepsName(t *testing.T) {
	u := validUser()
	require.NoError(t, ValidateUser(u, today))
	assert.Equal(t, "John", u.Name)
}

func TestValidateUser_TodayBirthdayAllowed(t *testing.T) {
	u := validUser()
	b := DateOf(today)
	u.Birthday = &b
	assert.NoError(t, ValidateUser(u, today))
}

func TestValidateUser_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(u *User)
		field  string
	}{
		{"future birthday", func(u *User) {
			b := NewDate(2024, time.May, 11)
			u.Birthday = &b
		}, "birthday"},
		{"empty email", func(u *User) { u.Email = "" }, "email"},
		{"malformed email", func(u *User) { u.Email = "not-an-email" }, "email"},
		{"blank login", func(u *User) { u.Login = "  " }, "login"},
		{"empty login", func(u *User) { u.Login = "" }, "login"},
		{"login with space", func(u *User) { u.Login = "j doe" }, "login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(u)
			err := ValidateUser(u, today)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateUser_MissingBirthdayIsNullContract(t *testing.T) {
	u := validUser()
	u.Birthday = nil
	err := ValidateUser(u, today)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingField))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "birthday must not be null", err.Error())
}

func TestUser_FriendIDsSorted(t *testing.T) {
	u := &User{Friends: map[uint64]FriendshipStatus{9: FriendshipPending, 2: FriendshipConfirmed, 5: FriendshipPending}}
	assert.Equal(t, []uint64{2, 5, 9}, u.FriendIDs())
}

func TestFriendshipStatus_Valid(t *testing.T) {
	assert.True(t, FriendshipPending.Valid())
	assert.True(t, FriendshipConfirmed.Valid())
	assert.False(t, FriendshipStatus("BLOCKED").Valid())
}
