package user

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	FindByID(id uuid.UUID) (*User, error)
	FindByIDs(ids []uuid.UUID) ([]User, error)
	FindByEmail(email string) (*User, error)
	Upsert(u *User) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) UserRepository {
	return &repository{db: db}
}

func (r *repository) FindByID(id uuid.UUID) (*User, error) {
	var u User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByIDs(ids []uuid.UUID) ([]User, error) {
	var users []User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) FindByEmail(email string) (*User, error) {
	var u User
	if err := r.db.First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) Upsert(u *User) error {
	existing, err := r.FindByEmail(u.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return r.db.Create(u).Error
		}
		return err
	}

	existing.Name = u.Name
	if u.RefreshToken != "" {
		existing.RefreshToken = u.RefreshToken
	}
	if err := r.db.Save(existing).Error; err != nil {
		return err
	}
	*u = *existing
	return nil
}
