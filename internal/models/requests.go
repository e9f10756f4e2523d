package models

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateStudentRequest represents an admin's add-student request.
// Password is optional: when omitted, a random one-time password is generated
// and returned once in the response.
type CreateStudentRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	Course         string `json:"course,omitempty"`
	EnrollmentYear int    `json:"enrollmentYear,omitempty"`
}

// UpdateStudentRequest represents an admin's partial student update.
// Pointer fields distinguish "omitted" (nil, keep the stored value) from
// "explicitly set". Name and email can never be cleared: an explicit empty
// value for either is treated the same as omitted.
type UpdateStudentRequest struct {
	Name           *string `json:"name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Course         *string `json:"course,omitempty"`
	EnrollmentYear *int    `json:"enrollmentYear,omitempty"`
}

// UpdateProfileRequest represents a self-service profile update.
// Same merge semantics as UpdateStudentRequest. Course and enrollment year are
// student-only fields and are silently ignored for admin callers.
type UpdateProfileRequest struct {
	Name           *string `json:"name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Course         *string `json:"course,omitempty"`
	EnrollmentYear *int    `json:"enrollmentYear,omitempty"`
}

// ChangeRoleRequest represents an admin's role-change request
type ChangeRoleRequest struct {
	Role Role `json:"role"`
}
