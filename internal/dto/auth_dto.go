package dto

import "github.com/flagwatch/flagwatch-backend/internal/models"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

type RegisterResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

type CreateAPIKeyRequest struct {
	Name string `json:"name"`
}

// APIKeyCreatedResponse is the only place the raw key material is exposed.
type APIKeyCreatedResponse struct {
	Message string        `json:"message"`
	APIKey  models.ApiKey `json:"api_key"`
	Key     string        `json:"key"`
}

type ValidateAPIKeyRequest struct {
	APIKey string `json:"api_key"`
}

type ValidateAPIKeyResponse struct {
	Valid bool `json:"valid"`
}

type GoogleLoginResponse struct {
	AuthURL string `json:"auth_url"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
