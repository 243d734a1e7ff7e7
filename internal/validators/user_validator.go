package validators

type SignupRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,phone_number"`
	Password  string `json:"password" validate:"required,strong_password"`
	Role      string `json:"role" validate:"omitempty,oneof=user driver"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string          `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName  *string          `json:"last_name" validate:"omitempty,min=2,max=50"`
	Phone     *string          `json:"phone" validate:"omitempty,phone_number"`
	Location  *LocationRequest `json:"location" validate:"omitempty"`
}

func ValidateSignupRequest(req *SignupRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateLoginRequest(req *LoginRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateUpdateProfileRequest(req *UpdateProfileRequest) ValidationErrors {
	errs := ValidateStruct(req)
	if req.Location != nil {
		errs = append(errs, ValidateStruct(req.Location)...)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
