package models

// Category is a user-defined label for transactions. Transactions and plans
// reference categories by name only, so edits here never cascade.
type Category struct {
	Base
	Name string `gorm:"not null;uniqueIndex" json:"name"`
}
