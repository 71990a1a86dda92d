package model

import "time"

// Course groups quizzes under a lecturer.
type Course struct {
	ID         int       `json:"id"`
	Code       string    `json:"code"`
	Title      string    `json:"title"`
	LecturerID *int      `json:"lecturer_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Code       string `json:"code" binding:"required,min=2,max=20"`
	Title      string `json:"title" binding:"required,min=3,max=255"`
	LecturerID *int   `json:"lecturer_id" binding:"omitempty"`
}

// UpdateCourseRequest is the payload for updating a course.
type UpdateCourseRequest struct {
	Code       string `json:"code" binding:"omitempty,min=2,max=20"`
	Title      string `json:"title" binding:"omitempty,min=3,max=255"`
	LecturerID *int   `json:"lecturer_id" binding:"omitempty"`
}
