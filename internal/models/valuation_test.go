package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newDepreciableItem() *InventoryItem {
	return &InventoryItem{
		UniqueID:        "IHUB/2020-21/LAP/STORE/001",
		TotalCost:       1000,
		SalvageValue:    100,
		UsefulLifeYears: 5,
		CreatedAt:       time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBookValue_MidLife(t *testing.T) {
	item := newDepreciableItem()

	// Two years into a five year life: 1000 - 2*180 = 640.
	asOf := item.CreatedAt.AddDate(2, 0, 0)
	v := item.BookValue(asOf)

	assert.Equal(t, 180.0, v.AnnualDepreciation)
	assert.InDelta(t, 640.0, v.BookValue, 1.0)
	assert.InDelta(t, 2.0, v.YearsInService, 0.01)
}

func TestBookValue_FullyDepreciated(t *testing.T) {
	item := newDepreciableItem()

	v := item.BookValue(item.CreatedAt.AddDate(10, 0, 0))
	assert.Equal(t, 100.0, v.BookValue) // never below salvage
}

func TestBookValue_NoUsefulLife(t *testing.T) {
	item := newDepreciableItem()
	item.UsefulLifeYears = 0

	v := item.BookValue(item.CreatedAt.AddDate(3, 0, 0))
	assert.Equal(t, 1000.0, v.BookValue)
	assert.Equal(t, 0.0, v.AnnualDepreciation)
}

func TestBookValue_BeforeEntry(t *testing.T) {
	item := newDepreciableItem()

	v := item.BookValue(item.CreatedAt.AddDate(-1, 0, 0))
	assert.Equal(t, 1000.0, v.BookValue)
	assert.Equal(t, 0.0, v.YearsInService)
}

func TestRequestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestValidItemStatus(t *testing.T) {
	assert.True(t, ValidItemStatus(ItemAvailable))
	assert.True(t, ValidItemStatus(ItemIssued))
	assert.True(t, ValidItemStatus(ItemMaintenance))
	assert.True(t, ValidItemStatus(ItemRetired))
	assert.False(t, ValidItemStatus(ItemStatus("lost")))
}

func TestValidItemCondition(t *testing.T) {
	assert.True(t, ValidItemCondition(ConditionExcellent))
	assert.True(t, ValidItemCondition(ConditionDamaged))
	assert.False(t, ValidItemCondition(ItemCondition("mint")))
}
