package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hogenchat/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

func (r *UserRepository) CreateUser(name string, age int) (*models.User, error) {
	user := models.User{Name: name, Age: age}
	if err := r.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// UpdateUser merges only the supplied fields into the stored record.
func (r *UserRepository) UpdateUser(id uint, name *string, age *int) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	updates := map[string]interface{}{}
	if name != nil {
		user.Name = *name
		updates["name"] = *name
	}
	if age != nil {
		user.Age = *age
		updates["age"] = *age
	}
	if len(updates) == 0 {
		return &user, nil
	}

	if err := r.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return &user, nil
}

func (r *UserRepository) DeleteUser(id uint) (bool, error) {
	result := r.db.Delete(&models.User{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete user %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
