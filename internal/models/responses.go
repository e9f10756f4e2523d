package models

import "time"

// PublicUser is the password-free projection of a user returned by every read
// path. Status is derived at response time and never stored.
type PublicUser struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Phone          string    `json:"phone,omitempty"`
	Course         string    `json:"course,omitempty"`
	EnrollmentYear int       `json:"enrollmentYear,omitempty"`
	Status         Status    `json:"status,omitempty"`
	JoinedAt       time.Time `json:"joinedAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Public converts a user to its public projection, computing the derived
// status for students against the given calendar year.
func (u *User) Public(currentYear int) *PublicUser {
	pub := &PublicUser{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Phone:          u.Phone,
		Course:         u.Course,
		EnrollmentYear: u.EnrollmentYear,
		JoinedAt:       u.JoinedAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	if u.Role == RoleStudent {
		pub.Status = StatusFor(u.EnrollmentYear, currentYear)
	}
	return pub
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string      `json:"token"`
	User  *PublicUser `json:"user"`
}

// CreatedStudentResponse is returned by the admin add-student operation.
// TemporaryPassword is set only when the admin omitted a password and a
// one-time credential was generated; it is never stored in plaintext.
type CreatedStudentResponse struct {
	*PublicUser
	TemporaryPassword string `json:"temporaryPassword,omitempty"`
}

// StudentListResponse is returned by the directory listing.
// Total is the post-filter, pre-pagination count.
type StudentListResponse struct {
	Students []PublicUser `json:"students"`
	Total    int          `json:"total"`
}

// StatsResponse holds the directory aggregate counts over the student subset
type StatsResponse struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Graduated int `json:"graduated"`
}
