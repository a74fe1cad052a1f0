package entity

// UntitledRecipe is shown for recipes stored without a title.
const UntitledRecipe = "Ohne Titel"

type Recipe struct {
	ID      string
	UID     string
	Title   string
	Content string
}

func (r *Recipe) Fields() map[string]any {
	return map[string]any{
		"title":   r.Title,
		"content": r.Content,
	}
}

func RecipeFromDocument(doc *Document) *Recipe {
	title := doc.String("title")
	if title == "" {
		title = UntitledRecipe
	}
	return &Recipe{
		ID:      doc.ID,
		UID:     doc.UID,
		Title:   title,
		Content: doc.String("content"),
	}
}
