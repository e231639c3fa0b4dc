package models

// AuthStatus описывает текущее состояние подключения продавца к маркетплейсу
type AuthStatus string

const (
	AuthStatusConnected    AuthStatus = "connected"
	AuthStatusDisconnected AuthStatus = "disconnected"
	AuthStatusExpired      AuthStatus = "expired"
)

// Marketplace представляет площадку, на которой может быть размещено объявление.
// Запись каталога неизменяема: переходы auth_status выполняет внешний процесс авторизации.
type Marketplace struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	LogoURL      string     `json:"logo_url"`
	IsActive     bool       `json:"is_active"`
	RequiresAuth bool       `json:"requires_auth"`
	AuthStatus   AuthStatus `json:"auth_status"`
}
