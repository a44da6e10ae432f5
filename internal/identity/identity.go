// Package identity models who a cart, order or visit belongs to: an
// authenticated user or an anonymous guest, never both and never neither.
package identity

import (
	"fmt"
	"net/url"
	"strconv"

	"storefront/internal/model"
)

// Kind tells which side of the identity is set.
type Kind int

const (
	KindNone Kind = iota
	KindUser
	KindGuest
)

// Identity is either User(id) or Guest(id). The zero value is neither and is
// rejected by every API call that needs an owner.
type Identity struct {
	kind    Kind
	userID  int64
	guestID string
}

// User returns the identity of an authenticated user.
func User(id int64) Identity {
	return Identity{kind: KindUser, userID: id}
}

// Guest returns the identity of an anonymous guest.
func Guest(id string) Identity {
	return Identity{kind: KindGuest, guestID: id}
}

// Resolve picks the active identity: an authenticated user wins over the
// guest id. It fails with model.ErrNoIdentity when neither is available.
func Resolve(user *model.User, guestID string) (Identity, error) {
	if user != nil && user.ID > 0 {
		return User(user.ID), nil
	}
	if guestID != "" {
		return Guest(guestID), nil
	}
	return Identity{}, model.ErrNoIdentity
}

// Kind returns which side is set.
func (i Identity) Kind() Kind {
	return i.kind
}

// IsZero reports whether neither side is set.
func (i Identity) IsZero() bool {
	return i.kind == KindNone
}

// UserID returns the user id when this is a user identity.
func (i Identity) UserID() (int64, bool) {
	return i.userID, i.kind == KindUser
}

// GuestID returns the guest id when this is a guest identity.
func (i Identity) GuestID() (string, bool) {
	return i.guestID, i.kind == KindGuest
}

// Owner returns the payload fields for this identity with exactly one side set.
func (i Identity) Owner() model.Owner {
	switch i.kind {
	case KindUser:
		id := i.userID
		return model.Owner{UserID: &id}
	case KindGuest:
		return model.Owner{GuestID: i.guestID}
	default:
		return model.Owner{}
	}
}

// Query returns the identity as URL query parameters.
func (i Identity) Query() url.Values {
	q := url.Values{}
	switch i.kind {
	case KindUser:
		q.Set("user_id", strconv.FormatInt(i.userID, 10))
	case KindGuest:
		q.Set("guest_id", i.guestID)
	}
	return q
}

func (i Identity) String() string {
	switch i.kind {
	case KindUser:
		return fmt.Sprintf("user:%d", i.userID)
	case KindGuest:
		return "guest:" + i.guestID
	default:
		return "none"
	}
}
