package dto

// TokenResponse carries the signed anonymous session token. The field is
// named "message" for compatibility with the storefront frontend.
type TokenResponse struct {
	Message string `json:"message"`
}
