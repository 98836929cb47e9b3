package handlers

import (
	dom "Tasks/internal/domain"
	"Tasks/internal/dto"
)

func todoToResponse(t dom.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}

func pageToResponse(p dom.TodoPage) dto.ListTodosResponse {
	return dto.ListTodosResponse{
		Todos:       todosToResponses(p.Todos),
		TotalPages:  p.TotalPages,
		CurrentPage: p.CurrentPage,
	}
}

func subscriptionToResponse(s dom.Subscription) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		IsSubscribed:     s.IsSubscribed,
		SubscriptionEnds: s.SubscriptionEnds,
	}
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		IsSubscribed:     u.IsSubscribed,
		SubscriptionEnds: u.SubscriptionEnds,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func lookupToResponse(l dom.UserLookup) dto.AdminLookupResponse {
	out := dto.AdminLookupResponse{
		TotalPages:  l.Todos.TotalPages,
		CurrentPage: l.Todos.CurrentPage,
	}
	if l.User != nil {
		out.User = &dto.AdminUserResponse{
			UserResponse: userToResponse(*l.User),
			Todos:        todosToResponses(l.Todos.Todos),
		}
	}
	return out
}

func eventToDomain(e dto.WebhookEvent) dom.IdentityEvent {
	return dom.IdentityEvent{
		Type:         e.Type,
		UserID:       e.Data.ID,
		PrimaryEmail: e.Data.PrimaryEmail(),
	}
}
