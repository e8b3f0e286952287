package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rehabib/plan-report-tourism/internal/dto"
	"github.com/rehabib/plan-report-tourism/internal/model"
	"github.com/rehabib/plan-report-tourism/internal/repository"
	"github.com/rehabib/plan-report-tourism/internal/workflow"
)

var (
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrDepartmentNameExists = errors.New("department name already exists")
)

// DepartmentService manages the organization units plans are routed
// through.
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error)
	List(ctx context.Context) ([]dto.DepartmentResponse, error)
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if req.Name == "" {
		return nil, &workflow.ValidationError{Field: "name", Message: "is required"}
	}
	existing, err := s.repo.Department.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup department", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrDepartmentNameExists
	}

	dept := &model.Department{Name: req.Name, IsActive: true}
	if req.Pillar != nil && *req.Pillar != "" {
		pillar := model.Role(*req.Pillar)
		if !pillar.IsPillar() {
			return nil, &workflow.ValidationError{Field: "pillar", Message: "must be a pillar role"}
		}
		dept.Pillar = &pillar
	}

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		s.logger.Error("create department", zap.Error(err))
		return nil, err
	}

	s.logger.Info("department created",
		zap.String("department_id", dept.DepartmentID),
		zap.String("name", dept.Name),
	)
	return toDepartmentResponse(dept), nil
}

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("list departments", zap.Error(err))
		return nil, err
	}
	out := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		out = append(out, *toDepartmentResponse(&depts[i]))
	}
	return out, nil
}

func toDepartmentResponse(d *model.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID:     d.DepartmentID,
		Name:   d.Name,
		Pillar: roleString(d.Pillar),
	}
}
