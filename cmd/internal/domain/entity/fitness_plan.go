package entity

// FitnessPlan stores the training goal as its title.
type FitnessPlan struct {
	ID      string
	UID     string
	Title   string
	Content string
	Date    string
}

func (p *FitnessPlan) Fields() map[string]any {
	return map[string]any{
		"title":   p.Title,
		"content": p.Content,
		"date":    p.Date,
	}
}

func FitnessPlanFromDocument(doc *Document) *FitnessPlan {
	return &FitnessPlan{
		ID:      doc.ID,
		UID:     doc.UID,
		Title:   doc.String("title"),
		Content: doc.String("content"),
		Date:    doc.String("date"),
	}
}
