package dto

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token emitido y datos básicos del usuario.
type LoginResponse struct {
	Token   string   `json:"token"`
	UserID  string   `json:"user_id"`
	Name    string   `json:"name"`
	Role    string   `json:"role"`
	Outlets []string `json:"outlets"`
}
