package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventmingle/internal/domain"
)

// decisionEmail holds the rendered pieces for one participation decision
// notification.
type decisionEmail struct {
	subject string
	text    string
}

// ParticipationEmailService sends a notification email to the participant
// when their participation reaches a decided status. It subscribes to the
// notification hub; failures are logged and never fail the transition that
// triggered them.
type ParticipationEmailService struct {
	mailer   domain.Mailer
	userRepo domain.UserRepository
	logger   *slog.Logger
	timeout  time.Duration
}

// NewParticipationEmailService returns a hub subscriber that emails
// participation decisions.
func NewParticipationEmailService(mailer domain.Mailer, userRepo domain.UserRepository, logger *slog.Logger, timeout time.Duration) *ParticipationEmailService {
	return &ParticipationEmailService{
		mailer:   mailer,
		userRepo: userRepo,
		logger:   logger,
		timeout:  timeout,
	}
}

// HandleParticipationChange implements the hub subscriber signature.
func (s *ParticipationEmailService) HandleParticipationChange(change domain.ParticipationChange) {
	msg, ok := s.render(change)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, change.Participation.UserID)
	if err != nil {
		s.logger.Error("decision email: get user", "user_id", change.Participation.UserID, "err", err)
		return
	}
	if err := s.mailer.Send(user.Email, msg.subject, "", msg.text); err != nil {
		s.logger.Error("decision email: send", "user_id", user.ID, "err", err)
		return
	}
	s.logger.Info("decision email sent", "user_id", user.ID, "status", change.Participation.Status)
}

func (s *ParticipationEmailService) render(change domain.ParticipationChange) (decisionEmail, bool) {
	eventName := ""
	if change.Event != nil {
		eventName = change.Event.Name
	}
	switch change.Participation.Status {
	case domain.StatusApproved:
		return decisionEmail{
			subject: fmt.Sprintf("You're in: %s", eventName),
			text:    fmt.Sprintf("Your request to join %q was approved. See you there!", eventName),
		}, true
	case domain.StatusRejected:
		return decisionEmail{
			subject: fmt.Sprintf("Update on %s", eventName),
			text:    fmt.Sprintf("Your request to join %q was not approved by the organizer.", eventName),
		}, true
	case domain.StatusCompleted:
		return decisionEmail{
			subject: fmt.Sprintf("Payment confirmed: %s", eventName),
			text:    fmt.Sprintf("Your payment for %q was received. Your spot is confirmed.", eventName),
		}, true
	}
	return decisionEmail{}, false
}
