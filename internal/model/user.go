package model

// Account represents a registered backend user
type Account struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Session is the bearer token returned by a successful login
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Metrics is the dashboard summary computed by the backend
type Metrics struct {
	Total              int     `json:"total"`
	InDevelopment      int     `json:"em_desenvolvimento"`
	InProduction       int     `json:"em_producao"`
	AverageProgress    float64 `json:"progresso_medio"`
	Overdue            int     `json:"atrasados"`
	CompletedThisMonth int     `json:"finalizados_mes"`
}

// Alert is a deadline alert produced by the backend
type Alert struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}
