// Package apierror provides the domain error taxonomy and the standardized
// error response structures for the API. All errors returned to clients go
// through this package to ensure consistency and to prevent leaking internal
// details (stack traces, DB errors, etc.).
package apierror

import "net/http"

// Kind classifies a domain error for HTTP mapping and logging.
type Kind string

const (
	KindValidacion        Kind = "validacion"
	KindConflicto         Kind = "conflicto"
	KindStockInsuficiente Kind = "stock_insuficiente"
	KindProductoNoCargado Kind = "producto_no_cargado"
	KindEstado            Kind = "estado"
	KindNoEncontrado      Kind = "no_encontrado"
	KindProhibido         Kind = "prohibido"
)

// Error is the typed error services return. Handlers map Kind to an HTTP
// status via Status(); the Detail is safe to surface verbatim to clients.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// Status maps the error kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidacion:
		return http.StatusBadRequest
	case KindNoEncontrado:
		return http.StatusNotFound
	case KindProhibido:
		return http.StatusForbidden
	case KindConflicto, KindStockInsuficiente, KindProductoNoCargado, KindEstado:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Validacion: bad input or business-rule violation, user-correctable.
func Validacion(msg string) *Error { return &Error{Kind: KindValidacion, Detail: msg} }

// Conflicto: overlapping assignment, duplicate line, duplicate load.
func Conflicto(msg string) *Error { return &Error{Kind: KindConflicto, Detail: msg} }

// StockInsuficiente: sale quantity exceeds the truck's current stock.
func StockInsuficiente(msg string) *Error {
	return &Error{Kind: KindStockInsuficiente, Detail: msg}
}

// ProductoNoCargado: sale references a product absent from the truck load.
func ProductoNoCargado(msg string) *Error {
	return &Error{Kind: KindProductoNoCargado, Detail: msg}
}

// Estado: invalid lifecycle transition (e.g. closing a visit never started).
func Estado(msg string) *Error { return &Error{Kind: KindEstado, Detail: msg} }

// NoEncontrado: missing referenced entity.
func NoEncontrado(msg string) *Error { return &Error{Kind: KindNoEncontrado, Detail: msg} }

// Prohibido: the authenticated user may not operate on this resource.
func Prohibido(msg string) *Error { return &Error{Kind: KindProhibido, Detail: msg} }

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
