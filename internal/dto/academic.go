package dto

import "github.com/yomu-app/yomu_backend/internal/core/domain"

// MajorResponse defines the data returned for a major.
type MajorResponse struct {
	MajorID string `json:"majorID"`
	Name    string `json:"name"`
	Code    string `json:"code"`
}

// CreateMajorRequest defines the data needed to create a major.
type CreateMajorRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// UpdateMajorRequest defines the data allowed for updating a major.
type UpdateMajorRequest struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
}

// ClassResponse defines the data returned for a class.
type ClassResponse struct {
	ClassID string  `json:"classID"`
	Name    string  `json:"name"`
	MajorID *string `json:"majorID,omitempty"`
}

// CreateClassRequest defines the data needed to create a class.
type CreateClassRequest struct {
	Name    string  `json:"name" binding:"required"`
	MajorID *string `json:"majorID"`
}

// UpdateClassRequest defines the data allowed for updating a class.
type UpdateClassRequest struct {
	Name    *string `json:"name"`
	MajorID *string `json:"majorID"`
}

// ToMajorResponse converts a domain.Major to MajorResponse DTO.
func ToMajorResponse(m *domain.Major) MajorResponse {
	return MajorResponse{MajorID: m.MajorID, Name: m.Name, Code: m.Code}
}

// ToClassResponse converts a domain.Class to ClassResponse DTO.
func ToClassResponse(c *domain.Class) ClassResponse {
	return ClassResponse{ClassID: c.ClassID, Name: c.Name, MajorID: c.MajorID}
}
