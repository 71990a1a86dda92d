package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/smartquiz/smartquiz-backend/internal/repository"
)

// ErrCourseNotFound is returned for operations on unknown courses.
var ErrCourseNotFound = errors.New("course not found")

// CourseService handles course management.
type CourseService struct {
	courseRepo *repository.CourseRepository
	log        zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo *repository.CourseRepository, log zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		log:        log.With().Str("component", "course_service").Logger(),
	}
}

// List returns all courses.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	return s.courseRepo.List(ctx)
}

// Create adds a new course.
func (s *CourseService) Create(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Code:       req.Code,
		Title:      req.Title,
		LecturerID: req.LecturerID,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Update applies partial changes to a course.
func (s *CourseService) Update(ctx context.Context, id int, req *model.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	if req.Code != "" {
		course.Code = req.Code
	}
	if req.Title != "" {
		course.Title = req.Title
	}
	if req.LecturerID != nil {
		course.LecturerID = req.LecturerID
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes a course not referenced by any quiz.
func (s *CourseService) Delete(ctx context.Context, id int) error {
	ok, err := s.courseRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCourseNotFound
	}
	return nil
}
