package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/solx/solx-api/internal/core/domain"
	"github.com/solx/solx-api/internal/core/ports"
)

type accessRequestService struct {
	users      ports.UserRepository
	requests   ports.AccessRequestRepository
	queue      ports.NotificationQueue
	dedup      ports.DedupChecker
	adminEmail string
	log        zerolog.Logger
}

// NewAccessRequestService returns an AccessRequestService. Notifications go
// to adminEmail through queue; dedup suppresses repeats for the same email.
func NewAccessRequestService(
	users ports.UserRepository,
	requests ports.AccessRequestRepository,
	queue ports.NotificationQueue,
	dedup ports.DedupChecker,
	adminEmail string,
	log zerolog.Logger,
) ports.AccessRequestService {
	return &accessRequestService{
		users:      users,
		requests:   requests,
		queue:      queue,
		dedup:      dedup,
		adminEmail: adminEmail,
		log:        log,
	}
}

// RequestAccess stores the request and queues a notification for the
// administrator. Notification problems are logged, never returned.
func (s *accessRequestService) RequestAccess(ctx context.Context, in ports.AccessRequestInput) (*domain.AccessRequest, error) {
	// 1. Existing accounts cannot request access again.
	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("request access: find user: %w", err)
	}

	// 2. Persist.
	created, err := s.requests.Create(ctx, &domain.AccessRequest{
		Name:      in.Name,
		Email:     in.Email,
		Company:   in.Company,
		Message:   in.Message,
		Status:    domain.AccessRequestPending,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("request access: store: %w", err)
	}

	// 3. Notify once per email per dedup window.
	fresh, err := s.dedup.Claim(ctx, "access_request:"+in.Email)
	if err != nil {
		s.log.Warn().Err(err).Str("request_id", created.ID).Msg("dedup check failed, notifying anyway")
		fresh = true
	}
	if !fresh {
		s.log.Debug().Str("request_id", created.ID).Msg("repeat access request, notification skipped")
		return created, nil
	}

	s.queue.Enqueue(domain.Notification{
		Kind:    domain.NotificationAccessRequest,
		Key:     in.Email,
		To:      s.adminEmail,
		Subject: "New Access Request - Sol-X",
		Payload: map[string]string{
			"requestId": created.ID,
			"name":      in.Name,
			"email":     in.Email,
			"company":   in.Company,
			"message":   in.Message,
		},
		CreatedAt: created.CreatedAt,
	})

	s.log.Info().Str("request_id", created.ID).Msg("access request received")
	return created, nil
}
