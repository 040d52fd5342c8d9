package models

// ItemStatus is the closed set of states an inventory item can be in.
type ItemStatus string

const (
	ItemAvailable   ItemStatus = "available"
	ItemIssued      ItemStatus = "issued"
	ItemMaintenance ItemStatus = "maintenance"
	ItemRetired     ItemStatus = "retired"
)

// ItemCondition is the closed set of physical conditions an item can be recorded in.
type ItemCondition string

const (
	ConditionExcellent ItemCondition = "excellent"
	ConditionGood      ItemCondition = "good"
	ConditionFair      ItemCondition = "fair"
	ConditionPoor      ItemCondition = "poor"
	ConditionDamaged   ItemCondition = "damaged"
)

// RequestStatus covers both asset requests and return requests.
// pending is the only non-terminal state.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// CategoryType splits assets into capitalized (major) and consumable-grade (minor).
type CategoryType string

const (
	CategoryMajor CategoryType = "major"
	CategoryMinor CategoryType = "minor"
)

// ValidItemStatus reports whether s is one of the closed item states.
func ValidItemStatus(s ItemStatus) bool {
	switch s {
	case ItemAvailable, ItemIssued, ItemMaintenance, ItemRetired:
		return true
	}
	return false
}

// ValidItemCondition reports whether c is one of the closed conditions.
func ValidItemCondition(c ItemCondition) bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor, ConditionDamaged:
		return true
	}
	return false
}

// Terminal reports whether a request status admits no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Attachment points at a file uploaded out-of-band (S3 or compatible).
type Attachment struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
}
