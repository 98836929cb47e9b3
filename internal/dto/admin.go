package dto

// AdminUserResponse is a user with one page of their todos.
type AdminUserResponse struct {
	UserResponse
	Todos []TodoResponse `json:"todos"`
}

// AdminLookupResponse is returned by GET /api/admin. User is null when no
// user has the requested email.
type AdminLookupResponse struct {
	User        *AdminUserResponse `json:"user"`
	TotalPages  int                `json:"totalPages"`
	CurrentPage int                `json:"currentPage"`
}

// AdminUpdateRequest either toggles a todo (todoId + todoCompleted) or the
// subscription of the user with email (isSubscribed).
type AdminUpdateRequest struct {
	Email         string  `json:"email"`
	IsSubscribed  *bool   `json:"isSubscribed"`
	TodoID        *string `json:"todoId"`
	TodoCompleted *bool   `json:"todoCompleted"`
}

type AdminDeleteRequest struct {
	TodoID string `json:"todoId" binding:"required"`
}
