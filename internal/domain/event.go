package domain

// Identity provider event types mirrored into the users table.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// IdentityEvent is a verified webhook event from the identity provider.
type IdentityEvent struct {
	Type         string
	UserID       string
	PrimaryEmail string
}

// MirrorResult tells the webhook endpoint what an event did locally.
type MirrorResult int

const (
	MirrorIgnored MirrorResult = iota
	MirrorCreated
	MirrorExisted
	MirrorUpdated
	MirrorDeleted
	MirrorMissing
)
