package forms

// Login is the password sign-in form.
type Login struct {
	Email    string `json:"email" validate:"notblank,email" label:"Email"`
	Password string `json:"password" validate:"notblank" label:"Password"`
}

// CodeLogin is the sign-in form using a mailed verification code.
type CodeLogin struct {
	Email            string `json:"email" validate:"notblank,email" label:"Email"`
	VerificationCode string `json:"verificationCode" validate:"notblank" label:"Verification code"`
}

type Signup struct {
	Username        string `json:"username" validate:"notblank" label:"Username"`
	DisplayName     string `json:"displayName" validate:"notblank" label:"Display name"`
	Email           string `json:"email" validate:"notblank,email" label:"Email"`
	Password        string `json:"password" validate:"notblank,min=6" label:"Password"`
	ConfirmPassword string `json:"confirmPassword" validate:"notblank,eqfield=Password" label:"Confirm password"`
	EmailCode       string `json:"emailCode" validate:"notblank" label:"Email code"`
}

// Email is any form made of an email address alone.
type Email struct {
	Email string `json:"email" validate:"notblank,email" label:"Email"`
}

type ValidateOTP struct {
	Email string `json:"email" validate:"notblank,email" label:"Email"`
	Code  string `json:"otp_code" validate:"notblank" label:"Verification code"`
}

type ResetPassword struct {
	Email       string `json:"email" validate:"notblank,email" label:"Email"`
	NewPassword string `json:"new_password" validate:"notblank,min=6" label:"New password"`
}

type KnowledgeBase struct {
	Name string `json:"name" validate:"notblank" label:"Name"`
}

type Assistant struct {
	Name        string  `json:"name" validate:"notblank" label:"Name"`
	Creativity  string  `json:"creativity" validate:"omitempty,oneof=precise balanced creative" label:"Creativity"`
	Temperature float64 `json:"temperature" validate:"gte=0,lte=1" label:"Temperature"`
}

type UserEdit struct {
	FullName string `json:"full_name" validate:"notblank" label:"Full name"`
	Username string `json:"username" validate:"notblank" label:"Username"`
	Email    string `json:"email" validate:"notblank" label:"Email"`
	Role     string `json:"role" validate:"notblank" label:"Role"`
}

type FileRename struct {
	Name string `json:"file_name" validate:"notblank" label:"File name"`
}

type Message struct {
	Content string `json:"content" validate:"notblank" label:"Message"`
}
