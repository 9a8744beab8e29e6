package auth

// SignInInput is the sign-in form.
type SignInInput struct {
	Username string `json:"username" form:"username" validate:"required,min=3"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

func (SignInInput) ValidationMessages() map[string]string {
	return map[string]string{
		"username.required": "Username is required",
		"username.min":      "Username must be at least 3 characters",
		"password.required": "Password is required",
		"password.min":      "Password must be at least 6 characters",
	}
}
