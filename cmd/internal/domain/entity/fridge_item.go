package entity

type FridgeItem struct {
	ID         string
	UID        string
	Name       string
	ExpiryDate *string
}

// HasExpiry is true only for a set, non-empty expiry date.
func (f *FridgeItem) HasExpiry() bool {
	return f.ExpiryDate != nil && *f.ExpiryDate != ""
}

func (f *FridgeItem) Fields() map[string]any {
	var expiry any
	if f.HasExpiry() {
		expiry = *f.ExpiryDate
	}
	return map[string]any{
		"name":       f.Name,
		"expiryDate": expiry,
	}
}

func FridgeItemFromDocument(doc *Document) *FridgeItem {
	return &FridgeItem{
		ID:         doc.ID,
		UID:        doc.UID,
		Name:       doc.String("name"),
		ExpiryDate: doc.OptionalString("expiryDate"),
	}
}
