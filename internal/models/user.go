package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User matches the document in MongoDB.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID string             `bson:"employeeID" json:"employeeID"` // e.g. "EMP-1A2B3C4D"
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name" json:"name"`
	Password   string             `bson:"password" json:"-"`
	Role       string             `bson:"role" json:"role"` // employee, stockmanager, admin
	Department string             `bson:"department,omitempty" json:"department,omitempty"`
	Status     string             `bson:"status" json:"status"` // active, disabled
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
