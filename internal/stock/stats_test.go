package stock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-bizman-ws/internal/model"
)

func TestSnapshotCountsOnlyMastersForStock(t *testing.T) {
	now := time.Now()
	master := makeProduct("A1", now, nil)
	master.Stock = dec("4")
	master.PriceBuy = dec("100000")

	alias := makeProduct("A1", now.Add(time.Hour), &master.ID)
	alias.Stock = dec("999") // stale counter on an alias must be ignored

	s := Snapshot([]model.Product{master, alias}, dec("10"))
	assert.Equal(t, 2, s.TotalProducts)
	assert.Equal(t, 1, s.LowStockCount)
	assert.True(t, s.TotalValuation.Equal(dec("400000")))
}

func TestMovementSeriesBucketsPerDay(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mk := func(ts time.Time, qty string, diff model.DiffType) model.InventoryLog {
		l := model.InventoryLog{Qty: dec(qty), DiffType: diff}
		l.CreatedAt = ts
		return l
	}

	series := MovementSeries([]model.InventoryLog{
		mk(day2, "3", model.DiffDecrease),
		mk(day1, "10", model.DiffIncrease),
		mk(day1, "4", model.DiffDecrease),
	})

	require.Len(t, series, 2)
	assert.Equal(t, "2026-03-01", series[0].Date)
	assert.True(t, series[0].Inbound.Equal(dec("10")))
	assert.True(t, series[0].Outbound.Equal(dec("4")))
	assert.Equal(t, "2026-03-02", series[1].Date)
	assert.True(t, series[1].Outbound.Equal(dec("3")))
}
