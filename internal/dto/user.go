package dto

import "time"

type SubscriptionResponse struct {
	IsSubscribed     bool       `json:"isSubscribed"`
	SubscriptionEnds *time.Time `json:"subscriptionEnds"`
}

type ActivateSubscriptionResponse struct {
	Message string `json:"message"`
	SubscriptionResponse
}

type UserResponse struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	IsSubscribed     bool       `json:"isSubscribed"`
	SubscriptionEnds *time.Time `json:"subscriptionEnds"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}
