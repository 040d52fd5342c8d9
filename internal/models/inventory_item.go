package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryItem is one physical, individually tracked asset unit.
// UniqueID follows IHUB/<financialYear>/<assetCode>/<location>/<serial>.
type InventoryItem struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UniqueID            string             `bson:"uniqueId" json:"uniqueId"`
	ProductSerialNumber string             `bson:"productSerialNumber,omitempty" json:"productSerialNumber,omitempty"` // manufacturer serial, distinct from the system serial
	Serial              int64              `bson:"serial" json:"serial"`

	CategoryType  CategoryType `bson:"categoryType" json:"categoryType"`
	AssetCategory string       `bson:"assetCategory" json:"assetCategory"`
	AssetName     string       `bson:"assetName" json:"assetName"`
	Vendor        string       `bson:"vendor" json:"vendor"`
	FinancialYear string       `bson:"financialYear" json:"financialYear"` // e.g. "2024-25"

	RateInclusiveTax       float64 `bson:"rateInclusiveTax" json:"rateInclusiveTax"`
	TotalCost              float64 `bson:"totalCost" json:"totalCost"` // rate x quantity, quantity fixed at 1 per unit record
	DepreciationMethod     string  `bson:"depreciationMethod,omitempty" json:"depreciationMethod,omitempty"`
	UsefulLifeYears        int     `bson:"usefulLifeYears,omitempty" json:"usefulLifeYears,omitempty"`
	SalvageValue           float64 `bson:"salvageValue,omitempty" json:"salvageValue,omitempty"`
	AnnualManagementCharge float64 `bson:"annualManagementCharge,omitempty" json:"annualManagementCharge,omitempty"`

	Location               string        `bson:"location" json:"location"`
	Status                 ItemStatus    `bson:"status" json:"status"`
	Condition              ItemCondition `bson:"condition" json:"condition"`
	BalanceQuantityInStock int           `bson:"balanceQuantityInStock" json:"balanceQuantityInStock"` // 0 or 1 at unit granularity
	MinimumStockLevel      int           `bson:"minimumStockLevel,omitempty" json:"minimumStockLevel,omitempty"`

	// Issuance fields are populated only while Status == issued.
	IssuedToID         string     `bson:"issuedToID,omitempty" json:"issuedToID,omitempty"`
	IssuedToName       string     `bson:"issuedToName,omitempty" json:"issuedToName,omitempty"`
	DateOfIssue        *time.Time `bson:"dateOfIssue,omitempty" json:"dateOfIssue,omitempty"`
	ExpectedReturnDate *time.Time `bson:"expectedReturnDate,omitempty" json:"expectedReturnDate,omitempty"`

	Attachments []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
