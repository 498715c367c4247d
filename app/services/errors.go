package services

import "errors"

// Each message is the exact text clients receive.
var (
	ErrDuplicateEmail     = errors.New("Email já cadastrado")
	ErrInvalidCredentials = errors.New("Credenciais inválidas")
	ErrInvalidToken       = errors.New("Token inválido")
	ErrProductNotFound    = errors.New("Produto não encontrado")
	ErrInvalidInput       = errors.New("Dados inválidos")
	ErrInvalidCheckout    = errors.New("Dados de checkout inválidos")
	ErrPaymentDeclined    = errors.New("Pagamento recusado")
)

// Event names fired on the bus.
const (
	EventUserRegistered  = "user.registered"
	EventOrderCheckedOut = "order.checked_out"
)
