package repository

import (
	"fmt"
	"strings"

	"quickchat/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByName(name string) (*model.User, error)
	Update(user *model.User) error
	NameExists(name string) (bool, error)
	Search(prompt string, excludeID uint) ([]*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByName(name string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("name = ?", name).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) NameExists(name string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search ищет по подстроке имени, исключая самого запрашивающего
func (r *userRepository) Search(prompt string, excludeID uint) ([]*model.User, error) {
	var users []*model.User
	err := r.db.Model(&model.User{}).
		Where("LOWER(name) LIKE ?", strings.ToLower(fmt.Sprint("%"+prompt+"%"))).
		Where("id <> ?", excludeID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
