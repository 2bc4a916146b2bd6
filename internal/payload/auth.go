package payload

// SendOTPRequest is shared by all three send-OTP endpoints.
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifySignupOTPRequest struct {
	Username       string `json:"username"       validate:"required"`
	Email          string `json:"email"          validate:"required,email"`
	Password       string `json:"password"       validate:"required,min=6"`
	ProfilePicture string `json:"profilePicture" validate:"omitempty,url"`
	OTP            string `json:"otp"            validate:"required,len=6"`
}

type VerifyLoginOTPRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp"      validate:"required,len=6"`
}

type VerifyResetOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
