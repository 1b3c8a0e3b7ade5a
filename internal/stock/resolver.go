// Package stock holds the pure stock-ledger logic: resolving which product
// record owns a stock counter, planning the deltas an order implies, and
// aggregating snapshot statistics. Everything here operates on in-memory
// values so it can be unit-tested without a database.
package stock

import (
	"github.com/google/uuid"

	"go-bizman-ws/internal/model"
)

// ResolveMaster returns the id of the product whose stock counter is
// authoritative for p, given the tenant's full product set.
//
//  1. An explicit link wins, if the target exists in the set.
//  2. Otherwise products sharing a non-empty SKU collapse onto a single
//     unlinked master: the earliest-created one (ties broken by id), so the
//     choice is stable regardless of iteration order.
//  3. A product with no link and no SKU match owns its own counter.
func ResolveMaster(p model.Product, all []model.Product) uuid.UUID {
	if p.LinkedProductID != nil {
		for _, other := range all {
			if other.ID == *p.LinkedProductID {
				return other.ID
			}
		}
		// Dangling link: fall through to the SKU rule.
	}

	if p.SKU != "" {
		master := p
		found := false
		for _, other := range all {
			if other.SKU != p.SKU || other.LinkedProductID != nil {
				continue
			}
			if !found || createdBefore(other, master) {
				master = other
				found = true
			}
		}
		if found {
			return master.ID
		}
	}

	return p.ID
}

func createdBefore(a, b model.Product) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}
