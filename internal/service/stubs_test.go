package service

import (
	"context"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertAppErrorCode fails the test unless err is an AppError with the
// given taxonomy code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

type userRepoStub struct {
	getByIDFn             func(context.Context, uint) (*models.User, error)
	getByIDWithMessagesFn func(context.Context, uint, int) (*models.User, error)
	getByEmailFn          func(context.Context, string) (*models.User, error)
	getByUsernameFn       func(context.Context, string) (*models.User, error)
	createFn              func(context.Context, *models.User) error
	updateFn              func(context.Context, *models.User) error
	deleteFn              func(context.Context, uint) error
	listFn                func(context.Context, int, int) ([]models.User, error)
	searchFn              func(context.Context, string, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithMessages(ctx context.Context, id uint, limit int) (*models.User, error) {
	return s.getByIDWithMessagesFn(ctx, id, limit)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Search(ctx context.Context, q string, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, q, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:             func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByIDWithMessagesFn: func(context.Context, uint, int) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:          func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:       func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:              func(context.Context, *models.User) error { return nil },
		updateFn:              func(context.Context, *models.User) error { return nil },
		deleteFn:              func(context.Context, uint) error { return nil },
		listFn:                func(context.Context, int, int) ([]models.User, error) { return nil, nil },
		searchFn:              func(context.Context, string, int, int) ([]models.User, error) { return nil, nil },
	}
}

type followRepoStub struct {
	createFn         func(context.Context, uint, uint) error
	deleteFn         func(context.Context, uint, uint) error
	isFollowingFn    func(context.Context, uint, uint) (bool, error)
	followersOfFn    func(context.Context, uint, int, int) ([]models.User, error)
	followingOfFn    func(context.Context, uint, int, int) ([]models.User, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, followedID, followerID uint) error {
	return s.createFn(ctx, followedID, followerID)
}
func (s *followRepoStub) Delete(ctx context.Context, followedID, followerID uint) error {
	return s.deleteFn(ctx, followedID, followerID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followedID)
}
func (s *followRepoStub) FollowersOf(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.followersOfFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) FollowingOf(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.followingOfFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(context.Context, uint, uint) error { return nil },
		deleteFn:         func(context.Context, uint, uint) error { return nil },
		isFollowingFn:    func(context.Context, uint, uint) (bool, error) { return false, nil },
		followersOfFn:    func(context.Context, uint, int, int) ([]models.User, error) { return nil, nil },
		followingOfFn:    func(context.Context, uint, int, int) ([]models.User, error) { return nil, nil },
		countFollowersFn: func(context.Context, uint) (int64, error) { return 0, nil },
		countFollowingFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

type messageRepoStub struct {
	createFn      func(context.Context, *models.Message) error
	getByIDFn     func(context.Context, uint, uint) (*models.Message, error)
	deleteFn      func(context.Context, uint) error
	listRecentFn  func(context.Context, int, int, uint) ([]*models.Message, error)
	listByUserFn  func(context.Context, uint, int, int, uint) ([]*models.Message, error)
	listFeedFn    func(context.Context, uint, int, int) ([]*models.Message, error)
	listLikedByFn func(context.Context, uint, int, int, uint) ([]*models.Message, error)
	countByUserFn func(context.Context, uint) (int64, error)
}

func (s *messageRepoStub) Create(ctx context.Context, message *models.Message) error {
	return s.createFn(ctx, message)
}
func (s *messageRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Message, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *messageRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *messageRepoStub) ListRecent(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	return s.listRecentFn(ctx, limit, offset, currentUserID)
}
func (s *messageRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	return s.listByUserFn(ctx, userID, limit, offset, currentUserID)
}
func (s *messageRepoStub) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error) {
	return s.listFeedFn(ctx, userID, limit, offset)
}
func (s *messageRepoStub) ListLikedBy(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	return s.listLikedByFn(ctx, userID, limit, offset, currentUserID)
}
func (s *messageRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:      func(context.Context, *models.Message) error { return nil },
		getByIDFn:     func(context.Context, uint, uint) (*models.Message, error) { return &models.Message{}, nil },
		deleteFn:      func(context.Context, uint) error { return nil },
		listRecentFn:  func(context.Context, int, int, uint) ([]*models.Message, error) { return nil, nil },
		listByUserFn:  func(context.Context, uint, int, int, uint) ([]*models.Message, error) { return nil, nil },
		listFeedFn:    func(context.Context, uint, int, int) ([]*models.Message, error) { return nil, nil },
		listLikedByFn: func(context.Context, uint, int, int, uint) ([]*models.Message, error) { return nil, nil },
		countByUserFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

type likeRepoStub struct {
	likeFn            func(context.Context, uint, uint) error
	unlikeFn          func(context.Context, uint, uint) error
	isLikedFn         func(context.Context, uint, uint) (bool, error)
	countForMessageFn func(context.Context, uint) (int64, error)
}

func (s *likeRepoStub) Like(ctx context.Context, userID, messageID uint) error {
	return s.likeFn(ctx, userID, messageID)
}
func (s *likeRepoStub) Unlike(ctx context.Context, userID, messageID uint) error {
	return s.unlikeFn(ctx, userID, messageID)
}
func (s *likeRepoStub) IsLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, messageID)
}
func (s *likeRepoStub) CountForMessage(ctx context.Context, messageID uint) (int64, error) {
	return s.countForMessageFn(ctx, messageID)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		likeFn:            func(context.Context, uint, uint) error { return nil },
		unlikeFn:          func(context.Context, uint, uint) error { return nil },
		isLikedFn:         func(context.Context, uint, uint) (bool, error) { return false, nil },
		countForMessageFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}
