package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

var (
	ErrMajorInUse = errors.New("major still has students or classes assigned")
	ErrClassInUse = errors.New("class still has students assigned")
)

// majorService manages study programs.
type majorService struct {
	BaseService
	majorRepo portsrepo.MajorRepositoryFacade
}

// NewMajorService creates a new MajorService.
func NewMajorService(majorRepo portsrepo.MajorRepositoryFacade) portssvc.MajorSvcFacade {
	return &majorService{majorRepo: majorRepo}
}

// Ensure majorService implements the portssvc.MajorSvcFacade interface
var _ portssvc.MajorSvcFacade = (*majorService)(nil)

func (s *majorService) ListMajors(ctx context.Context) ([]domain.Major, error) {
	return s.majorRepo.ListMajors(ctx)
}

func (s *majorService) GetMajorByID(ctx context.Context, majorID string) (*domain.Major, error) {
	return s.majorRepo.FindMajorByID(ctx, majorID)
}

func (s *majorService) CreateMajor(ctx context.Context, req dto.CreateMajorRequest) (*domain.Major, error) {
	now := time.Now()
	major := domain.Major{
		MajorID: uuid.NewString(),
		Name:    req.Name,
		Code:    req.Code,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.majorRepo.SaveMajor(ctx, major); err != nil {
		return nil, fmt.Errorf("failed to create major: %w", err)
	}
	s.GetLogger(ctx).Info("Major created", slog.String("major_id", major.MajorID))
	return &major, nil
}

func (s *majorService) UpdateMajor(ctx context.Context, majorID string, req dto.UpdateMajorRequest) (*domain.Major, error) {
	major, err := s.majorRepo.FindMajorByID(ctx, majorID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		major.Name = *req.Name
	}
	if req.Code != nil {
		major.Code = *req.Code
	}
	major.LastUpdatedAt = time.Now()

	if err := s.majorRepo.UpdateMajor(ctx, *major); err != nil {
		return nil, fmt.Errorf("failed to update major: %w", err)
	}
	return major, nil
}

// DeleteMajor removes a major; referencing users or classes block the delete.
func (s *majorService) DeleteMajor(ctx context.Context, majorID string) error {
	if _, err := s.majorRepo.FindMajorByID(ctx, majorID); err != nil {
		return err
	}
	refs, err := s.majorRepo.CountMajorReferences(ctx, majorID)
	if err != nil {
		return fmt.Errorf("failed to count major references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrRuleViolation, ErrMajorInUse)
	}
	return s.majorRepo.DeleteMajor(ctx, majorID)
}

// classService manages homeroom classes.
type classService struct {
	BaseService
	classRepo portsrepo.ClassRepositoryFacade
	majorRepo portsrepo.MajorRepositoryFacade
}

// NewClassService creates a new ClassService.
func NewClassService(classRepo portsrepo.ClassRepositoryFacade, majorRepo portsrepo.MajorRepositoryFacade) portssvc.ClassSvcFacade {
	return &classService{classRepo: classRepo, majorRepo: majorRepo}
}

// Ensure classService implements the portssvc.ClassSvcFacade interface
var _ portssvc.ClassSvcFacade = (*classService)(nil)

func (s *classService) ListClasses(ctx context.Context) ([]domain.Class, error) {
	return s.classRepo.ListClasses(ctx)
}

func (s *classService) GetClassByID(ctx context.Context, classID string) (*domain.Class, error) {
	return s.classRepo.FindClassByID(ctx, classID)
}

func (s *classService) checkMajor(ctx context.Context, majorID *string) error {
	if majorID == nil {
		return nil
	}
	if _, err := s.majorRepo.FindMajorByID(ctx, *majorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: major %s does not exist", apperrors.ErrValidation, *majorID)
		}
		return err
	}
	return nil
}

func (s *classService) CreateClass(ctx context.Context, req dto.CreateClassRequest) (*domain.Class, error) {
	if err := s.checkMajor(ctx, req.MajorID); err != nil {
		return nil, err
	}

	now := time.Now()
	class := domain.Class{
		ClassID: uuid.NewString(),
		Name:    req.Name,
		MajorID: req.MajorID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.classRepo.SaveClass(ctx, class); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}
	s.GetLogger(ctx).Info("Class created", slog.String("class_id", class.ClassID))
	return &class, nil
}

func (s *classService) UpdateClass(ctx context.Context, classID string, req dto.UpdateClassRequest) (*domain.Class, error) {
	class, err := s.classRepo.FindClassByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if req.MajorID != nil {
		if err := s.checkMajor(ctx, req.MajorID); err != nil {
			return nil, err
		}
		class.MajorID = req.MajorID
	}
	if req.Name != nil {
		class.Name = *req.Name
	}
	class.LastUpdatedAt = time.Now()

	if err := s.classRepo.UpdateClass(ctx, *class); err != nil {
		return nil, fmt.Errorf("failed to update class: %w", err)
	}
	return class, nil
}

// DeleteClass removes a class; assigned students block the delete.
func (s *classService) DeleteClass(ctx context.Context, classID string) error {
	if _, err := s.classRepo.FindClassByID(ctx, classID); err != nil {
		return err
	}
	members, err := s.classRepo.CountClassMembers(ctx, classID)
	if err != nil {
		return fmt.Errorf("failed to count class members: %w", err)
	}
	if members > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrRuleViolation, ErrClassInUse)
	}
	return s.classRepo.DeleteClass(ctx, classID)
}
