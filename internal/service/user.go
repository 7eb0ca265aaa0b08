package service

import (
	"errors"

	"quickchat/internal/model"
	"quickchat/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(user *model.User) error {
	// Валидация данных перед созданием
	if user.Name == "" {
		return errors.New("name is required")
	}
	if user.Password == "" {
		return errors.New("password is required")
	}

	return s.userRepo.Create(user)
}

func (s *userService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user ID")
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (s *userService) GetUserByName(name string) (*model.User, error) {
	if name == "" {
		return nil, errors.New("invalid name")
	}

	user, err := s.userRepo.FindByName(name)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (s *userService) NameExists(name string) (bool, error) {
	return s.userRepo.NameExists(name)
}

// SearchUsers не бьёт в базу при пустом запросе — контракт страницы
func (s *userService) SearchUsers(prompt string, excludeID uint) ([]*model.User, error) {
	if prompt == "" {
		return []*model.User{}, nil
	}

	return s.userRepo.Search(prompt, excludeID)
}

func (s *userService) SetAvatarKey(userID uint, key string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	user.AvatarKey = key
	return s.userRepo.Update(user)
}
