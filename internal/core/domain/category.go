package domain

// Category groups books on the shelf (fiction, science, ...).
type Category struct {
	CategoryID  string  `json:"categoryID"` // Primary Key (UUID)
	Name        string  `json:"name"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
	BookCount   int     `json:"bookCount"` // Populated on reads
	AuditFields
}

// Major is a study program students belong to.
type Major struct {
	MajorID string `json:"majorID"` // Primary Key (UUID)
	Name    string `json:"name"`
	Code    string `json:"code"`
	AuditFields
}

// Class is a homeroom group within a major.
type Class struct {
	ClassID string  `json:"classID"` // Primary Key (UUID)
	Name    string  `json:"name"`
	MajorID *string `json:"majorID,omitempty"`
	AuditFields
}
