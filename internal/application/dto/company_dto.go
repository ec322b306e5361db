package dto

import "time"

// CompanyDetailsRequest body of onboarding and of update-company-details.
type CompanyDetailsRequest struct {
	CompanyName   string `json:"companyName" validate:"notblank,max=200"`
	GSTNumber     string `json:"gstNumber" validate:"notblank,max=20"`
	Address       string `json:"address" validate:"notblank"`
	City          string `json:"city" validate:"notblank,max=100"`
	State         string `json:"state" validate:"notblank,max=100"`
	Pincode       string `json:"pincode" validate:"notblank,max=10"`
	Phone         string `json:"phone" validate:"omitempty,max=20"`
	Email         string `json:"email" validate:"omitempty,email"`
	Website       string `json:"website" validate:"omitempty,max=200"`
	BankName      string `json:"bankName" validate:"omitempty,max=100"`
	AccountNumber string `json:"accountNumber" validate:"omitempty,max=30"`
	IFSCCode      string `json:"ifscCode" validate:"omitempty,max=15"`
}

// CompanyResponse company profile as returned to its owner.
type CompanyResponse struct {
	CompanyName           string     `json:"companyName"`
	GSTNumber             string     `json:"gstNumber"`
	Address               string     `json:"address"`
	City                  string     `json:"city"`
	State                 string     `json:"state"`
	Pincode               string     `json:"pincode"`
	Phone                 string     `json:"phone"`
	Email                 string     `json:"email"`
	Website               string     `json:"website"`
	BankName              string     `json:"bankName"`
	AccountNumber         string     `json:"accountNumber"`
	IFSCCode              string     `json:"ifscCode"`
	OnboardingComplete    bool       `json:"onboarding_complete"`
	OnboardingCompletedAt *time.Time `json:"onboarding_completed_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// OnboardingStatusResponse body of GET /api/onboarding/status.
type OnboardingStatusResponse struct {
	Status             string `json:"status"`
	HasCompanyDetails  bool   `json:"has_company_details"`
	OnboardingComplete bool   `json:"onboarding_complete"`
}

// ProfileResponse body of GET /api/get-profile-data.
type ProfileResponse struct {
	Status  string           `json:"status"`
	User    UserResponse     `json:"user"`
	Company *CompanyResponse `json:"company"`
}

// CompanyDetailsResponse body returned after saving company details.
type CompanyDetailsResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Company *CompanyResponse `json:"company"`
}
