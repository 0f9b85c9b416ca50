package wire

import "encoding/json"

// TokenResponse is returned by login, verify and refresh
type TokenResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
	ExpiresIn    *int    `json:"expires_in"`
	User         APIUser `json:"user"`
}

// APIUser is the backend's user representation
type APIUser struct {
	ID         int        `json:"id"`
	Email      string     `json:"email"`
	FirstName  *string    `json:"first_name"`
	LastName   *string    `json:"last_name"`
	Role       *string    `json:"role"`
	Name       *string    `json:"name"`
	IsVerified *bool      `json:"is_verified"`
	CreatedAt  *Timestamp `json:"created_at"`
}

// RegisterResponse is returned by teacher registration
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  *int   `json:"user_id"`
}

// LoginRequest is the password login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerificationCodeRequest asks the backend to mail a login code
type VerificationCodeRequest struct {
	Email string `json:"email"`
}

// VerifyRequest exchanges an emailed code for tokens
type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// RefreshRequest exchanges a refresh token for fresh tokens
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterTeacherRequest creates a teacher account
type RegisterTeacherRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UpdateProfileBody is the PUT /api/auth/me payload. The endpoint has
// whole-object replacement semantics: every field must appear in the JSON,
// with unset fields sent as explicit null rather than omitted.
type UpdateProfileBody struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
}

// MarshalJSON always emits all four keys, null for unset fields
func (b UpdateProfileBody) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]*string{
		"email":      b.Email,
		"first_name": b.FirstName,
		"last_name":  b.LastName,
		"password":   b.Password,
	})
}
