package services

import (
	"errors"
	"fmt"

	"github.com/solvemarket/marketplace-api/internal/models"
	"github.com/solvemarket/marketplace-api/internal/repository"
	"github.com/solvemarket/marketplace-api/internal/workflow"
	"gorm.io/gorm"
)

// UserService handles role promotion and profile management.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// PromoteToBuyer promotes a problem solver to buyer. The transition is
// one-directional and admin-initiated; nothing ever demotes a buyer back.
func (s *UserService) PromoteToBuyer(actor models.User, targetID uint64) (*models.User, error) {
	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := workflow.Authorize(actor, workflow.ActionPromoteUser, workflow.Target{User: target}); err != nil {
		return nil, err
	}

	if target.Role != models.RoleProblemSolver {
		return nil, workflow.InvalidState("only problem solvers can be promoted to buyer")
	}

	target.Role = models.RoleBuyer
	if err := s.userRepo.Update(target); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	return target, nil
}

// UpdateProfileInput carries the solver profile fields a user may edit on
// their own account. Nil fields are left untouched.
type UpdateProfileInput struct {
	Bio          *string
	Skills       *string
	Experience   *string
	PortfolioURL *string
}

// UpdateProfile updates the actor's own profile.
func (s *UserService) UpdateProfile(actor models.User, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := workflow.Authorize(actor, workflow.ActionUpdateProfile, workflow.Target{User: user}); err != nil {
		return nil, err
	}

	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Skills != nil {
		user.Skills = *input.Skills
	}
	if input.Experience != nil {
		user.Experience = *input.Experience
	}
	if input.PortfolioURL != nil {
		user.PortfolioURL = *input.PortfolioURL
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// ListUsers returns all users, admin only.
func (s *UserService) ListUsers(actor models.User, page, pageSize int) ([]models.User, int64, error) {
	if err := workflow.Authorize(actor, workflow.ActionListUsers, workflow.Target{}); err != nil {
		return nil, 0, err
	}

	users, total, err := s.userRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}
