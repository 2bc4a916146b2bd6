package payload

type RegisterRequest struct {
	Username       string `json:"username"       validate:"required"`
	Email          string `json:"email"          validate:"required,email"`
	Password       string `json:"password"       validate:"required,min=6"`
	ProfilePicture string `json:"profilePicture" validate:"omitempty,url"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateProfileRequest struct {
	NewUsername    string `json:"newUsername"`
	NewPassword    string `json:"newPassword"    validate:"omitempty,min=6"`
	ProfilePicture string `json:"profilePicture" validate:"omitempty,url"`
}

type UpdateAPIKeyRequest struct {
	APIKey string `json:"apiKey" validate:"required"`
}

// SessionResponse is returned by login-style endpoints. Tokens also travel as
// HTTP-only cookies; they are echoed in the body for non-browser clients.
type SessionResponse struct {
	User         any    `json:"user"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
