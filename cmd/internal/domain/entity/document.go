package entity

import "gorm.io/datatypes"

// Collection names as they exist in stored data.
const (
	CollectionAppointments = "termine"
	CollectionFridge       = "fridge"
	CollectionGrocery      = "grocery"
	CollectionRecipes      = "recipes"
	CollectionFitnessPlans = "fitnessPlans"
)

// Document is one schemaless record of a collection, owned by UID.
type Document struct {
	ID         string            `gorm:"primaryKey;size:36"`
	Collection string            `gorm:"not null;size:64;index:idx_documents_owner,priority:1"`
	UID        string            `gorm:"not null;size:128;index:idx_documents_owner,priority:2"`
	Fields     datatypes.JSONMap `gorm:"not null"`
	CreatedAt  int64             `gorm:"not null"`
}

// String returns the field as a string; missing, null and non-string
// values read as "".
func (d *Document) String(key string) string {
	if d.Fields == nil {
		return ""
	}
	s, _ := d.Fields[key].(string)
	return s
}

// OptionalString is like String but keeps the difference between an
// absent/null field and an empty one.
func (d *Document) OptionalString(key string) *string {
	if d.Fields == nil {
		return nil
	}
	s, ok := d.Fields[key].(string)
	if !ok {
		return nil
	}
	return &s
}
