package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"go-bizman-ws/internal/model"
)

func makeProduct(sku string, createdAt time.Time, linked *uuid.UUID) model.Product {
	p := model.Product{SKU: sku, LinkedProductID: linked}
	p.ID = uuid.New()
	p.CreatedAt = createdAt
	return p
}

func TestResolveMasterExplicitLink(t *testing.T) {
	now := time.Now()
	a := makeProduct("X001", now, nil)
	b := makeProduct("X001", now.Add(time.Hour), &a.ID)
	all := []model.Product{a, b}

	assert.Equal(t, a.ID, ResolveMaster(b, all))
	assert.Equal(t, a.ID, ResolveMaster(a, all))
}

func TestResolveMasterSKUFallback(t *testing.T) {
	now := time.Now()
	a := makeProduct("X001", now, nil)
	c := makeProduct("X001", now.Add(time.Minute), nil) // no explicit link, same SKU, created later
	all := []model.Product{c, a}                        // order must not matter

	// C must resolve to the earliest-created unlinked holder of the SKU,
	// never to itself.
	assert.Equal(t, a.ID, ResolveMaster(c, all))
	assert.Equal(t, a.ID, ResolveMaster(a, all))
}

func TestResolveMasterDeterministicTieBreak(t *testing.T) {
	now := time.Now()
	a := makeProduct("X001", now, nil)
	b := makeProduct("X001", now, nil) // identical CreatedAt

	got1 := ResolveMaster(a, []model.Product{a, b})
	got2 := ResolveMaster(a, []model.Product{b, a})
	assert.Equal(t, got1, got2, "resolution must not depend on slice order")

	gotB := ResolveMaster(b, []model.Product{a, b})
	assert.Equal(t, got1, gotB, "both aliases must agree on one master")
}

func TestResolveMasterNoSKU(t *testing.T) {
	p := makeProduct("", time.Now(), nil)
	assert.Equal(t, p.ID, ResolveMaster(p, []model.Product{p}))
}

func TestResolveMasterDanglingLink(t *testing.T) {
	missing := uuid.New()
	p := makeProduct("", time.Now(), &missing)
	// Link target is gone and there is no SKU: fall back to itself.
	assert.Equal(t, p.ID, ResolveMaster(p, []model.Product{p}))
}
