package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType tags audit records written by the workflows.
type TransactionType string

const (
	TxnIssue  TransactionType = "ISSUE"
	TxnReturn TransactionType = "RETURN"
)

// Transaction is an immutable audit record linking an item, the employee it
// moved to or from, and the reviewer who authorized the move. Names are
// stored as snapshots on purpose; later renames must not rewrite history.
type Transaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TransactionID string             `bson:"transactionID" json:"transactionID"` // e.g. "TXN-1A2B3C4D"
	Type          TransactionType    `bson:"type" json:"type"`

	InventoryItemID string `bson:"inventoryItemID" json:"inventoryItemID"`
	AssetName       string `bson:"assetName" json:"assetName"`
	RequestID       string `bson:"requestID,omitempty" json:"requestID,omitempty"` // REQ-/RET- business key

	EmployeeID   string `bson:"employeeID" json:"employeeID"`
	EmployeeName string `bson:"employeeName" json:"employeeName"`
	ReviewerID   string `bson:"reviewerID" json:"reviewerID"`
	ReviewerName string `bson:"reviewerName" json:"reviewerName"`
	Remarks      string `bson:"remarks,omitempty" json:"remarks,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
