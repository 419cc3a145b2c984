package handler

import (
	"time"

	"github.com/coinflipper/login-service/internal/domain"
)

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Admin     bool   `json:"admin"`
}

type sessionResponse struct {
	Key          string        `json:"key"`
	User         userResponse  `json:"user"`
	PretendingAs *userResponse `json:"pretendingAs,omitempty"`
	LastActivity *time.Time    `json:"lastActivity,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Admin:     u.Admin,
	}
}

func toSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{
		Key:          s.Key,
		LastActivity: s.LastActivity,
		CreatedAt:    s.CreatedAt,
	}
	if s.User != nil {
		resp.User = toUserResponse(s.User)
	}
	if s.PretendUser != nil {
		pretend := toUserResponse(s.PretendUser)
		resp.PretendingAs = &pretend
	}
	return resp
}
