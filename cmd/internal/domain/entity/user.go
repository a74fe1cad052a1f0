package entity

type User struct {
	ID            int    `gorm:"primaryKey"`
	SubUUID       string `gorm:"not null;uniqueIndex"` // Cognito "sub", the uid of every document
	Username      string `gorm:"not null"`
	Email         string `gorm:"not null;uniqueIndex"`
	EmailVerified bool   `gorm:"not null"`
	CreatedAt     int64  `gorm:"not null"`
	UpdatedAt     int64  `gorm:"not null"`
}
