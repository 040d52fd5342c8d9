package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReturnRequest is an employee's ask to give back an issued asset.
// At most one pending return request may exist per inventory item; a partial
// unique index on the collection enforces this.
type ReturnRequest struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReturnID     string             `bson:"returnID" json:"returnID"` // e.g. "RET-1A2B3C4D"
	EmployeeID   string             `bson:"employeeID" json:"employeeID"`
	EmployeeName string             `bson:"employeeName" json:"employeeName"`

	InventoryItemID   string        `bson:"inventoryItemID" json:"inventoryItemID"` // the item's uniqueId
	AssetName         string        `bson:"assetName" json:"assetName"`
	ReturnReason      string        `bson:"returnReason" json:"returnReason"`
	ConditionOnReturn ItemCondition `bson:"conditionOnReturn" json:"conditionOnReturn"`
	Notes             string        `bson:"notes,omitempty" json:"notes,omitempty"`

	Status      RequestStatus `bson:"status" json:"status"`
	RequestedAt time.Time     `bson:"requestedAt" json:"requestedAt"`

	ReviewedAt      *time.Time `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	ReviewedBy      string     `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewerName    string     `bson:"reviewerName,omitempty" json:"reviewerName,omitempty"`
	ApprovalRemarks string     `bson:"approvalRemarks,omitempty" json:"approvalRemarks,omitempty"`
	RejectionReason string     `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
}
