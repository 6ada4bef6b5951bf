package admin

import (
	"context"

	"github.com/ola-fintech/microcredit/internal/apperror"
	"github.com/ola-fintech/microcredit/internal/credit"
	"github.com/ola-fintech/microcredit/internal/message"
	"github.com/ola-fintech/microcredit/internal/user"
)

const defaultPageSize = 10

// Service builds the cross-entity reports backing the admin console.
type Service struct {
	users    user.Repository
	credits  credit.Repository
	messages message.Repository
}

// NewService creates a new admin service.
func NewService(users user.Repository, credits credit.Repository, messages message.Repository) *Service {
	return &Service{users: users, credits: credits, messages: messages}
}

// UserReport is one applicant enriched with their full credit and message history.
type UserReport struct {
	User     user.User         `json:"user"`
	Credits  []credit.Request  `json:"credits"`
	Messages []message.Message `json:"messages"`
}

// ListResult is a page of reports plus the unpaged match count.
type ListResult struct {
	Total int          `json:"total"`
	Users []UserReport `json:"users"`
}

// ListUsers returns non-admin users matching the search term and status
// filter, paginated, each enriched with credit and message history. When
// both status flags are set, pending wins. History lookups stay per-user so
// the fan-out is bounded by the page size.
func (s *Service) ListUsers(ctx context.Context, searchTerm string, showPending, showActive bool, page, limit int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	status := ""
	if showPending {
		status = user.StatusPending
	} else if showActive {
		status = user.StatusActive
	}

	filter := user.Filter{
		SearchTerm: searchTerm,
		Status:     status,
		Skip:       (page - 1) * limit,
		Limit:      limit,
	}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return ListResult{}, apperror.Internal(err)
	}

	matched, err := s.users.Search(ctx, filter)
	if err != nil {
		return ListResult{}, apperror.Internal(err)
	}

	reports := make([]UserReport, 0, len(matched))
	for _, u := range matched {
		credits, err := s.credits.ListByUID(ctx, u.UID)
		if err != nil {
			return ListResult{}, apperror.Internal(err)
		}
		messages, err := s.messages.ListByUID(ctx, u.UID)
		if err != nil {
			return ListResult{}, apperror.Internal(err)
		}
		reports = append(reports, UserReport{User: u, Credits: credits, Messages: messages})
	}

	return ListResult{Total: total, Users: reports}, nil
}
