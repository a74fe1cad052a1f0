package entity

type Appointment struct {
	ID   string
	UID  string
	Date string
	Text string
}

func (a *Appointment) Fields() map[string]any {
	return map[string]any{
		"date": a.Date,
		"text": a.Text,
	}
}

func AppointmentFromDocument(doc *Document) *Appointment {
	return &Appointment{
		ID:   doc.ID,
		UID:  doc.UID,
		Date: doc.String("date"),
		Text: doc.String("text"),
	}
}
