package domain

import "time"

// User is the authentication account (users table).
// Profile data lives in Profile, keyed by the same id.
type User struct {
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	ID          string     `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Email       string     `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	Password    string     `gorm:"column:password;size:255;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Identity is the authenticated caller as seen by services
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// RegisterRequest creates an account and its initial profile
type RegisterRequest struct {
	GraduationYear *int   `json:"graduation_year"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Role           Role   `json:"role" binding:"required" validate:"role"`
	Degree         string `json:"degree" binding:"required"`
	Department     string `json:"department" binding:"required"`
	RollNumber     string `json:"roll_number"`
	JobTitle       string `json:"job_title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
}

// LoginRequest email/password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token when it is not sent as a cookie
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPair is returned by register, login and refresh
type TokenPair struct {
	ExpiresAt    time.Time `json:"expires_at"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
}

// AuthResponse token pair plus the caller's identity
type AuthResponse struct {
	User *Identity `json:"user"`
	TokenPair
}
