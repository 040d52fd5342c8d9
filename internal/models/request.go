package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request is an employee's ask for an asset, routed through approval.
// Transitions: pending -> approved or pending -> rejected, both terminal.
type Request struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID    string             `bson:"requestID" json:"requestID"` // e.g. "REQ-1A2B3C4D"
	EmployeeID   string             `bson:"employeeID" json:"employeeID"`
	EmployeeName string             `bson:"employeeName" json:"employeeName"`

	ItemType      string `bson:"itemType" json:"itemType"` // requested asset name/category
	Quantity      int    `bson:"quantity" json:"quantity"`
	Purpose       string `bson:"purpose" json:"purpose"`
	Justification string `bson:"justification,omitempty" json:"justification,omitempty"`

	Status      RequestStatus `bson:"status" json:"status"`
	SubmittedAt time.Time     `bson:"submittedAt" json:"submittedAt"`

	ReviewedAt      *time.Time `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	ReviewedBy      string     `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewerName    string     `bson:"reviewerName,omitempty" json:"reviewerName,omitempty"`
	Remarks         string     `bson:"remarks,omitempty" json:"remarks,omitempty"`
	RejectionReason string     `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`

	// InventoryItemID binds the request to the unit issued; set only on approval.
	InventoryItemID  string `bson:"inventoryItemID,omitempty" json:"inventoryItemID,omitempty"`
	ApprovedQuantity int    `bson:"approvedQuantity,omitempty" json:"approvedQuantity,omitempty"`
}
