package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rehabib/plan-report-tourism/internal/dto"
	"github.com/rehabib/plan-report-tourism/internal/model"
	"github.com/rehabib/plan-report-tourism/internal/repository"
	"github.com/rehabib/plan-report-tourism/internal/workflow"
)

var ErrUsernameExists = errors.New("username already exists")

// UserService provisions accounts.
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// CreateUser stores a new account. Roles below the pillar level belong to
// a department; the executive roles may have none.
func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, &workflow.ValidationError{Field: "role", Message: "unknown role " + req.Role}
	}
	if len(req.Password) < 8 {
		return nil, &workflow.ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}

	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var deptID *string
	switch {
	case req.Department != "":
		dept, err := s.repo.Department.GetByName(ctx, req.Department)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		deptID = &dept.DepartmentID
	case needsDepartment(role):
		return nil, &workflow.ValidationError{Field: "department", Message: "is required for role " + req.Role}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		DepartmentID: deptID,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("create user", zap.Error(err))
		return nil, err
	}

	// reload for the department
	created, err := s.repo.User.GetByID(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created",
		zap.String("user_id", created.UserID),
		zap.String("role", string(role)),
	)
	resp := toUserResponse(created)
	return &resp, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func needsDepartment(role model.Role) bool {
	switch role {
	case model.RoleIndividual, model.RoleDesk, model.RoleDepartment:
		return true
	}
	return false
}
