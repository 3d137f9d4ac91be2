package logic

import (
	"math/rand"

	"github.com/pathgriho/adrotor/internal/models"
)

// EligiblePool filters an owner's ads down to the servable set: active ads
// belonging to the owner, narrowed to label matches when labels are given.
// When label filtering leaves nothing, the pre-label pool is returned
// instead, so label targeting degrades gracefully rather than starving a
// slot. An owner with no active ads at all yields an empty pool.
func EligiblePool(ads []models.Ad, ownerID string, labels []string) []models.Ad {
	var pool []models.Ad
	for _, ad := range ads {
		if ad.Active() && ad.OwnerID == ownerID {
			pool = append(pool, ad)
		}
	}
	if len(labels) == 0 || len(pool) == 0 {
		return pool
	}

	var tagged []models.Ad
	for _, ad := range pool {
		if ad.HasAnyTag(labels) {
			tagged = append(tagged, ad)
		}
	}
	if len(tagged) == 0 {
		return pool
	}
	return tagged
}

// effectiveWeight clamps declared weights up to 1 so every pooled ad keeps
// a nonzero selection probability.
func effectiveWeight(ad models.Ad) float64 {
	if ad.Weight < 1 {
		return 1
	}
	return ad.Weight
}

// PickAd performs a weighted random draw over the pool. A nil rng uses the
// shared math/rand source, which is safe for concurrent handlers; tests pass
// a seeded one. The last element acts as a safety net against floating-point
// drift, so a non-empty pool always yields an ad. An empty pool returns nil.
func PickAd(pool []models.Ad, rng *rand.Rand) *models.Ad {
	if len(pool) == 0 {
		return nil
	}
	total := 0.0
	for _, ad := range pool {
		total += effectiveWeight(ad)
	}
	draw := rand.Float64
	if rng != nil {
		draw = rng.Float64
	}
	r := draw() * total
	for i := range pool {
		r -= effectiveWeight(pool[i])
		if r <= 0 {
			return &pool[i]
		}
	}
	return &pool[len(pool)-1]
}
