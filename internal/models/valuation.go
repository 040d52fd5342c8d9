package models

import "time"

// Valuation is the computed book value of an item at a point in time.
type Valuation struct {
	UniqueID           string  `json:"uniqueId"`
	AcquisitionCost    float64 `json:"acquisitionCost"`
	SalvageValue       float64 `json:"salvageValue"`
	UsefulLifeYears    int     `json:"usefulLifeYears"`
	YearsInService     float64 `json:"yearsInService"`
	AnnualDepreciation float64 `json:"annualDepreciation"`
	BookValue          float64 `json:"bookValue"`
}

// BookValue computes the straight-line book value of the item as of asOf.
// Items without a useful life depreciate nothing; the value never drops
// below the salvage value.
func (it *InventoryItem) BookValue(asOf time.Time) Valuation {
	v := Valuation{
		UniqueID:        it.UniqueID,
		AcquisitionCost: it.TotalCost,
		SalvageValue:    it.SalvageValue,
		UsefulLifeYears: it.UsefulLifeYears,
		BookValue:       it.TotalCost,
	}

	if it.UsefulLifeYears <= 0 || it.TotalCost <= it.SalvageValue {
		return v
	}

	years := asOf.Sub(it.CreatedAt).Hours() / (24 * 365.25)
	if years < 0 {
		years = 0
	}
	if years > float64(it.UsefulLifeYears) {
		years = float64(it.UsefulLifeYears)
	}

	v.YearsInService = years
	v.AnnualDepreciation = (it.TotalCost - it.SalvageValue) / float64(it.UsefulLifeYears)
	v.BookValue = it.TotalCost - v.AnnualDepreciation*years
	if v.BookValue < it.SalvageValue {
		v.BookValue = it.SalvageValue
	}
	return v
}
