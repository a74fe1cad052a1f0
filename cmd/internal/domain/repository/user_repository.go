package repository

import (
	"errors"
	"gorm.io/gorm"
	"lifemate/cmd/internal/domain/entity"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindBySub(sub string) (*entity.User, error) {
	return u.first("sub_uuid = ?", sub)
}

func (u *DefaultUserRepository) FindByEmail(email string) (*entity.User, error) {
	return u.first("email = ?", email)
}

func (u *DefaultUserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := u.db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (u *DefaultUserRepository) Save(user *entity.User) error {
	return u.db.Save(user).Error
}

func (u *DefaultUserRepository) Delete(user *entity.User) error {
	return u.db.Delete(user).Error
}

// first returns nil, nil when nothing matches.
func (u *DefaultUserRepository) first(query string, args ...any) (*entity.User, error) {
	var user entity.User
	err := u.db.Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
