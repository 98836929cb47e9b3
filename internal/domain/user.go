package domain

import "time"

// User mirrors an identity provider account. ID is the provider's user id.
type User struct {
	ID               string
	Email            string
	IsSubscribed     bool
	SubscriptionEnds *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Subscription is the entitlement view of a user.
type Subscription struct {
	IsSubscribed     bool
	SubscriptionEnds *time.Time
}

// Expired reports whether the stored subscription window has passed at now.
func (u User) Expired(now time.Time) bool {
	return u.SubscriptionEnds != nil && u.SubscriptionEnds.Before(now)
}

func (u User) Subscription() Subscription {
	return Subscription{IsSubscribed: u.IsSubscribed, SubscriptionEnds: u.SubscriptionEnds}
}

// UserLookup is the admin view of a user: the user (nil when no match) and a
// page of their todos.
type UserLookup struct {
	User  *User
	Todos TodoPage
}
