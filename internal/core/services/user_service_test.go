package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hduce/eagle_bank_api/internal/apperrors"
	"github.com/hduce/eagle_bank_api/internal/core/domain"
	portssvc "github.com/hduce/eagle_bank_api/internal/core/ports/services"
	"github.com/hduce/eagle_bank_api/internal/core/services"
	"github.com/hduce/eagle_bank_api/internal/dto"
	"github.com/hduce/eagle_bank_api/internal/platform/auth"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Helpers ---

func createUserReq() dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		PhoneNumber: "+447700900123",
		Address: dto.AddressDTO{
			Line1:    "1 High Street",
			Town:     "London",
			County:   "Greater London",
			Postcode: "E1 6AN",
		},
		Password: "correct-horse-battery",
	}
}

func userFixture(userID string) domain.User {
	hash, _ := auth.HashPassword("correct-horse-battery")
	return domain.User{
		UserID:       userID,
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		PhoneNumber:  "+447700900123",
		PasswordHash: hash,
	}
}

// --- Test Suite Setup ---

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo    *MockUserRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.UserSvcFacade
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.service = services.NewUserService(s.mockUserRepo, s.mockAccountRepo)
}

// --- Test Cases ---

func (s *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := createUserReq()

	s.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	user, err := s.service.CreateUser(ctx, req)

	s.Require().NoError(err)
	s.Require().NotNil(user)
	s.NotEmpty(user.UserID)
	s.Equal(req.Email, user.Email)
	s.Equal("London", user.Address.Town)
	s.NotEqual(req.Password, user.PasswordHash)
	s.True(auth.CheckPasswordHash(req.Password, user.PasswordHash))
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	ctx := context.Background()

	s.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	_, err := s.service.CreateUser(ctx, createUserReq())

	s.Require().ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *UserServiceTestSuite) TestGetUserByID_SelfOnly() {
	ctx := context.Background()
	user := userFixture("user-1")

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(&user, nil).Once()

	got, err := s.service.GetUserByID(ctx, "user-1", "user-1")
	s.Require().NoError(err)
	s.Equal("user-1", got.UserID)

	_, err = s.service.GetUserByID(ctx, "user-1", "user-2")
	s.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (s *UserServiceTestSuite) TestUpdateUser_EmailAlreadyRegistered() {
	ctx := context.Background()
	user := userFixture("user-1")
	other := userFixture("user-2")
	other.Email = "taken@example.com"
	newEmail := "taken@example.com"

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(&user, nil).Once()
	s.mockUserRepo.On("FindUserByEmail", ctx, newEmail).Return(&other, nil).Once()

	_, err := s.service.UpdateUser(ctx, "user-1", dto.UpdateUserRequest{Email: &newEmail}, "user-1")

	s.Require().ErrorIs(err, apperrors.ErrDuplicate)
	s.mockUserRepo.AssertNotCalled(s.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestUpdateUser_Success() {
	ctx := context.Background()
	user := userFixture("user-1")
	newName := "Ada King"

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(&user, nil).Once()
	s.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == newName && u.Email == user.Email
	})).Return(nil).Once()

	updated, err := s.service.UpdateUser(ctx, "user-1", dto.UpdateUserRequest{Name: &newName}, "user-1")

	s.Require().NoError(err)
	s.Equal(newName, updated.Name)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestDeleteUser_StillOwnsAccounts() {
	ctx := context.Background()
	user := userFixture("user-1")

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(&user, nil).Once()
	s.mockAccountRepo.On("ListAccountsByUser", ctx, "user-1").Return([]domain.Account{accountFixture("0.00", 0)}, nil).Once()

	err := s.service.DeleteUser(ctx, "user-1", "user-1")

	s.Require().ErrorIs(err, services.ErrUserHasAccounts)
	s.mockUserRepo.AssertNotCalled(s.T(), "DeleteUser", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestDeleteUser_Success() {
	ctx := context.Background()
	user := userFixture("user-1")

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(&user, nil).Once()
	s.mockAccountRepo.On("ListAccountsByUser", ctx, "user-1").Return([]domain.Account{}, nil).Once()
	s.mockUserRepo.On("DeleteUser", ctx, "user-1").Return(nil).Once()

	err := s.service.DeleteUser(ctx, "user-1", "user-1")

	s.Require().NoError(err)
	s.mockUserRepo.AssertExpectations(s.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
