package dto

import "time"

// RegisterRequest body of POST /api/auth/register.
type RegisterRequest struct {
	Username    string `json:"username" validate:"notblank,max=150"`
	Email       string `json:"email" validate:"omitempty,email"`
	Password    string `json:"password" validate:"required,min=8"`
	CompanyName string `json:"company_name" validate:"omitempty,max=200"`
	FirstName   string `json:"first_name" validate:"omitempty,max=150"`
	LastName    string `json:"last_name" validate:"omitempty,max=150"`
}

// LoginRequest accepts a username or an email in Username.
type LoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// UserResponse a user without the password hash.
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LoginResponse token plus the user and onboarding state.
type LoginResponse struct {
	Status             string       `json:"status"`
	Token              string       `json:"token"`
	User               UserResponse `json:"user"`
	OnboardingComplete bool         `json:"onboarding_complete"`
}

// UpdateUserRequest body of POST /api/update-user-profile.
type UpdateUserRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"omitempty,max=150"`
	LastName  string `json:"last_name" validate:"omitempty,max=150"`
}

// ChangePasswordRequest body of POST /api/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// UserProfileResponse body returned after updating the user profile.
type UserProfileResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
}
