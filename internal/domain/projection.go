package domain

// ViewerRole is the relationship of the viewer to an event.
type ViewerRole string

const (
	RoleAnonymous   ViewerRole = "anonymous"
	RoleParticipant ViewerRole = "participant"
	RoleOrganizer   ViewerRole = "organizer"
)

// Action names a user-facing operation the viewer may trigger.
type Action string

const (
	ActionJoin         Action = "join"
	ActionCancel       Action = "cancel"
	ActionPay          Action = "pay"
	ActionRetryPayment Action = "retry_payment"
	ActionApprove      Action = "approve"
	ActionReject       Action = "reject"
)

// AllowedActions maps the current participation status and viewer role to the
// set of actions the viewer may trigger. Pure; no network access. Anonymous
// viewers get nothing, and the organizer is never offered join on their own
// event.
func AllowedActions(status ParticipationStatus, role ViewerRole) []Action {
	switch role {
	case RoleOrganizer:
		if status == StatusPending {
			return []Action{ActionApprove, ActionReject}
		}
		return nil
	case RoleParticipant:
		switch status {
		case StatusNone:
			return []Action{ActionJoin}
		case StatusPending, StatusApproved:
			return []Action{ActionCancel}
		case StatusPaymentPending:
			return []Action{ActionPay, ActionCancel}
		case StatusPaymentFailed:
			return []Action{ActionRetryPayment, ActionCancel}
		}
		return nil
	default:
		return nil
	}
}

// statusLabels is the fixed status-to-category mapping. Localization of the
// displayed text is a presentation concern; the category per status is not.
var statusLabels = map[ParticipationStatus]string{
	StatusNone:           "not-participating",
	StatusPending:        "awaiting-decision",
	StatusApproved:       "confirmed",
	StatusRejected:       "denied",
	StatusPaymentPending: "awaiting-payment",
	StatusPaymentFailed:  "payment-failed",
	StatusCancelled:      "cancelled",
	StatusCompleted:      "confirmed-and-paid",
}

// StatusLabel returns the display category for a status.
func StatusLabel(status ParticipationStatus) string {
	return statusLabels[status]
}
