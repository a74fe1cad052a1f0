package entity

type GroceryItem struct {
	ID   string
	UID  string
	Name string
}

func (g *GroceryItem) Fields() map[string]any {
	return map[string]any{"name": g.Name}
}

func GroceryItemFromDocument(doc *Document) *GroceryItem {
	return &GroceryItem{
		ID:   doc.ID,
		UID:  doc.UID,
		Name: doc.String("name"),
	}
}
