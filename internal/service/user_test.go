package service

import (
	"testing"

	"quickchat/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[uint]*model.User

	searchCalls   int
	lastPrompt    string
	lastExcludeID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*model.User)}
}

func (f *fakeUserRepo) Create(user *model.User) error {
	user.ID = uint(len(f.users) + 1)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByName(name string) (*model.User, error) {
	for _, user := range f.users {
		if user.Name == name {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) NameExists(name string) (bool, error) {
	_, err := f.FindByName(name)
	return err == nil, nil
}

func (f *fakeUserRepo) Search(prompt string, excludeID uint) ([]*model.User, error) {
	f.searchCalls++
	f.lastPrompt = prompt
	f.lastExcludeID = excludeID

	var users []*model.User
	for _, user := range f.users {
		if user.ID != excludeID {
			users = append(users, user)
		}
	}
	return users, nil
}

func TestSearchUsersEmptyPromptSkipsQuery(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	users, err := svc.SearchUsers("", 1)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, 0, repo.searchCalls)
}

func TestSearchUsersExcludesSelf(t *testing.T) {
	repo := newFakeUserRepo()
	require.NoError(t, repo.Create(&model.User{Name: "Alice", Password: "x"}))
	require.NoError(t, repo.Create(&model.User{Name: "Bob", Password: "x"}))

	svc := NewUserService(repo)

	users, err := svc.SearchUsers("o", 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), repo.lastExcludeID)
	for _, u := range users {
		assert.NotEqual(t, uint(1), u.ID)
	}
}

func TestGetUserByIDNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.GetUserByID(99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetAvatarKey(t *testing.T) {
	repo := newFakeUserRepo()
	require.NoError(t, repo.Create(&model.User{Name: "Alice", Password: "x"}))

	svc := NewUserService(repo)
	require.NoError(t, svc.SetAvatarKey(1, "avatars/1/pic.png"))

	user, err := svc.GetUserByID(1)
	require.NoError(t, err)
	assert.Equal(t, "avatars/1/pic.png", user.AvatarKey)
}
