package models

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest defines the structure for registration requests
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// VerifyRequest carries the emailed verification token
type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// LinkAccountRequest links a gambling-platform account to the user
type LinkAccountRequest struct {
	PlatformID string `json:"platformId" binding:"required"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// WithdrawRequest defines the structure for withdrawal requests
type WithdrawRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// SpinRequest defines the structure for spin requests
type SpinRequest struct {
	Tier string `json:"tier" binding:"required"`
}
