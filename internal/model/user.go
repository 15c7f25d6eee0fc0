package model

import (
	"sort"
	"strings"
	"time"
)

// FriendshipStatus is the state of one directional friendship edge.
type FriendshipStatus string

const (
	// FriendshipPending marks a request the other user has not reciprocated.
	FriendshipPending FriendshipStatus = "PENDING"
	// FriendshipConfirmed marks an edge whose reverse edge also exists.
	FriendshipConfirmed FriendshipStatus = "CONFIRMED"
)

// Valid reports whether s is a known status.
func (s FriendshipStatus) Valid() bool {
	return s == FriendshipPending || s == FriendshipConfirmed
}

// User represents an application user record as stored in the `users`
// table, plus the friendship edges it owns.
//
// Fields:
//
//	ID       – users.user_id.
//	Email    – users.email, unique and well-formed.
//	Login    – users.login, unique, non-blank and without whitespace.
//	Name     – users.name; the login is used when left blank.
//	Birthday – users.birthday, required and not in the future.
//	Friends  – friend id → status of the edge owned by this user.
type User struct {
	ID       uint64                      `json:"id"`
	Email    string                      `json:"email" validate:"required,email"`
	Login    string                      `json:"login" validate:"notblank,nowhitespace"`
	Name     string                      `json:"name"`
	Birthday *Date                       `json:"birthday"`
	Friends  map[uint64]FriendshipStatus `json:"friends"`
}

// Friendship is one directional edge of the `friendships` table.
type Friendship struct {
	UserID   uint64           // friendships.user_id, the owner of the edge
	FriendID uint64           // friendships.friend_id
	Status   FriendshipStatus // friendships.status
}

var userMessages = map[string]string{
	"email.required":     "User email must not be empty",
	"email.email":        "User email must be a valid email address",
	"login.notblank":     "User login must not be blank",
	"login.nowhitespace": "User login must not contain whitespace",
}

// ValidateUser checks the field rules of u against the calendar day of
// now.  A blank name is replaced by the login.
func ValidateUser(u *User, now time.Time) error {
	if u.Birthday == nil {
		return &MissingFieldError{Field: "birthday"}
	}
	if err := validateStruct(u, userMessages); err != nil {
		return err
	}
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
	if u.Birthday.After(DateOf(now).Time) {
		return Invalid("birthday", "User birthday must be before current date")
	}
	return nil
}

// FriendIDs returns the keys of the friend map in ascending order.
func (u *User) FriendIDs() []uint64 {
	ids := make([]uint64, 0, len(u.Friends))
	for id := range u.Friends {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
