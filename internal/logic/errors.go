package logic

import "fmt"

// ErrNoEligibleAds reports that one or both owners ended up with an empty
// pool after filtering. Pool sizes are kept so the handler can tell the
// caller which slot starved.
type ErrNoEligibleAds struct {
	TopOwnerID     string
	BottomOwnerID  string
	TopPoolSize    int
	BottomPoolSize int
}

func (e *ErrNoEligibleAds) Error() string {
	return fmt.Sprintf("no eligible ads: owner %s has %d, owner %s has %d",
		e.TopOwnerID, e.TopPoolSize, e.BottomOwnerID, e.BottomPoolSize)
}
