package dto

type LoginRequest struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

type RegisterRequest struct {
	FullName string `json:"FullName"`
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

// AuthResponse carries the session token. The backend has shipped it under
// three different keys over time, so all are read.
type AuthResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	AuthToken   string `json:"authToken"`
	Message     string `json:"message,omitempty"`
}

// SessionToken returns the first populated token field.
func (r AuthResponse) SessionToken() string {
	for _, t := range []string{r.Token, r.AccessToken, r.AuthToken} {
		if t != "" {
			return t
		}
	}
	return ""
}

type ForgotPasswordRequest struct {
	Email string `json:"Email"`
}
