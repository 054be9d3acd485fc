package dto

type CheckEmailResponse struct {
	Exists bool `json:"exists"`
}

// LoginFailure carries one of the two fixed sign-in failure strings.
type LoginFailure struct {
	Message string `json:"message"`
}
