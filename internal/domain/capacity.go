package domain

// CanAcceptNewParticipant reports whether the event can take another
// participant. APPROVED and COMPLETED participations hold a slot; everything
// else (pending decisions, pending or failed payments, terminal rejections
// and cancellations) does not. A nil MaxParticipants means unlimited.
func CanAcceptNewParticipant(snap *EventSnapshot) bool {
	if snap == nil || snap.Event == nil || snap.Event.MaxParticipants == nil {
		return true
	}
	held := 0
	for _, p := range snap.Participants {
		if p.Status == StatusApproved || p.Status == StatusCompleted {
			held++
		}
	}
	return held < *snap.Event.MaxParticipants
}
