package dto

// ActionResult is the uniform response shape for all mutating operations.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
