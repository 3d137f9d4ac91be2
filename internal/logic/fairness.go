package logic

import "github.com/pathgriho/adrotor/internal/models"

// SelectTopOwner decides which of the two owners gets the top slot for this
// request based on today's top-impression counts for the current device
// class. The owner with the lower-or-equal count wins top; a tie goes to
// ownerA, the first owner listed in config. The tie-break is deterministic
// on purpose; it must stay stable so the daily split alternates predictably
// from a cold start. The loser gets bottom unconditionally; there is no
// separate bottom fairness.
//
// The caller increments the winner's counter after committing to the
// assignment.
func SelectTopOwner(countA, countB int64, ownerA, ownerB models.Owner) (top, bottom models.Owner) {
	if countA <= countB {
		return ownerA, ownerB
	}
	return ownerB, ownerA
}
