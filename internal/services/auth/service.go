package auth

import (
	"context"
	"errors"
	"log"

	"giftwise/internal/models"
	"giftwise/internal/repositories"
	"giftwise/internal/services/ledger"
	"giftwise/internal/services/user"
	"giftwise/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	// Register creates the account and its gift wallet.
	Register(ctx context.Context, input *models.CreateUserInput) (*models.User, error)
	Login(email, password string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(userID uint) error
}

type service struct {
	users    user.Service
	userRepo repositories.UserRepository
	ledger   ledger.Service
}

func NewService(users user.Service, userRepo repositories.UserRepository, ledgerSvc ledger.Service) Service {
	return &service{
		users:    users,
		userRepo: userRepo,
		ledger:   ledgerSvc,
	}
}

func (s *service) Register(ctx context.Context, input *models.CreateUserInput) (*models.User, error) {
	newUser, err := s.users.Create(input)
	if err != nil {
		return nil, err
	}

	// Every account gets a wallet up front so deposits and holds never
	// race wallet creation.
	wallet, err := s.ledger.CreateWallet(ctx, newUser.ID, "")
	if err != nil {
		log.Printf("Failed to create wallet for new user %d: %v", newUser.ID, err)
		return nil, errors.New("failed to provision gift wallet")
	}

	newUser.WalletID = &wallet.ID
	if err := s.userRepo.Update(newUser); err != nil {
		log.Printf("Failed to link wallet %d to user %d: %v", wallet.ID, newUser.ID, err)
		return nil, errors.New("failed to link gift wallet")
	}

	return newUser, nil
}

func (s *service) Login(email, password string) (*models.User, string, string, error) {
	loggedIn, err := s.userRepo.GetByEmail(email)
	if err != nil {
		log.Printf("Login failed: user not found for %s", email)
		return nil, "", "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(loggedIn.Password), []byte(password)); err != nil {
		log.Printf("Login failed: incorrect password for user ID: %d", loggedIn.ID)
		return nil, "", "", errors.New("invalid credentials")
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       loggedIn.ID,
		Email:        loggedIn.Email,
		Role:         loggedIn.Role,
		TokenVersion: loggedIn.TokenVersion,
		Permissions:  models.GetDefaultPermissions(loggedIn.Role),
	})
	if err != nil {
		log.Println("Error generating tokens:", err)
		return nil, "", "", errors.New("error generating tokens")
	}

	return loggedIn, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	current, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", "", errors.New("user not found")
	}

	if current.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:       current.ID,
		Email:        current.Email,
		Role:         current.Role,
		TokenVersion: current.TokenVersion,
		Permissions:  models.GetDefaultPermissions(current.Role),
	})
}

func (s *service) Logout(userID uint) error {
	return s.userRepo.IncrementTokenVersion(userID)
}
