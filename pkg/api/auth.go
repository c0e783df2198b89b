package api

// TokenResponse представляет ответ PUT /user/token
type TokenResponse struct {
	Token string `json:"token"` // "base64(id):base64(secret)", выдается один раз
}

// RevokeTokenRequest представляет тело DELETE /user/token
type RevokeTokenRequest struct {
	Token string `json:"token"` // токен, который нужно отозвать
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // текст HTTP статуса
	Message string `json:"message,omitempty"` // дополнительное сообщение без деталей реализации
}

// HealthResponse представляет ответ GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
