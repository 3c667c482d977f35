package models

import (
	"errors"
	"net/http"
)

// Виды ошибок, которые видит клиент.
var (
	ErrMissingParameter      = errors.New("missing required parameters")
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrInvalidQuantity       = errors.New("quantity must be a positive integer")
	ErrRouteNotFound         = errors.New("shipping route not found or inactive")
	ErrRateNotFound          = errors.New("no active base rate found for this route and container type")
	ErrContainerTypeNotFound = errors.New("container type not found")
	ErrCargoTypeNotFound     = errors.New("cargo type not found")
	ErrPortNotFound          = errors.New("port not found")
	ErrCountryNotFound       = errors.New("country not found")
	ErrQuoteNotFound         = errors.New("quote not found")
	ErrQuoteItemNotFound     = errors.New("quote item not found")
	ErrInvalidStatus         = errors.New("invalid quote status transition")
	ErrQuoteNotEditable      = errors.New("quote items can only be changed while the quote is a draft")
	ErrPersistenceConflict   = errors.New("persistence conflict")
	ErrInternalComputation   = errors.New("internal computation error")
)

// ErrorKind - машинно-читаемый код ошибки в ответе.
type ErrorKind string

const (
	KindMissingParameter      ErrorKind = "MissingParameter"
	KindInvalidParameter      ErrorKind = "InvalidParameter"
	KindInvalidQuantity       ErrorKind = "InvalidQuantity"
	KindRouteNotFound         ErrorKind = "RouteNotFound"
	KindRateNotFound          ErrorKind = "RateNotFound"
	KindContainerTypeNotFound ErrorKind = "ContainerTypeNotFound"
	KindCargoTypeNotFound     ErrorKind = "CargoTypeNotFound"
	KindNotFound              ErrorKind = "NotFound"
	KindInvalidStatus         ErrorKind = "InvalidStatus"
	KindPersistenceConflict   ErrorKind = "PersistenceConflict"
	KindInternal              ErrorKind = "InternalComputationError"
)

// ErrorResponse описывает ошибку с кодом и сообщением.
type ErrorResponse struct {
	StatusCode int       `json:"-"`
	Kind       ErrorKind `json:"kind,omitempty"`
	Message    string    `json:"reason"`
}

// NewErrorResponse создает новую ошибку с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}

var errorKinds = []struct {
	err    error
	kind   ErrorKind
	status int
}{
	{ErrMissingParameter, KindMissingParameter, http.StatusBadRequest},
	{ErrInvalidParameter, KindInvalidParameter, http.StatusBadRequest},
	{ErrInvalidQuantity, KindInvalidQuantity, http.StatusBadRequest},
	{ErrRouteNotFound, KindRouteNotFound, http.StatusNotFound},
	{ErrRateNotFound, KindRateNotFound, http.StatusNotFound},
	{ErrContainerTypeNotFound, KindContainerTypeNotFound, http.StatusNotFound},
	{ErrCargoTypeNotFound, KindCargoTypeNotFound, http.StatusNotFound},
	{ErrPortNotFound, KindNotFound, http.StatusNotFound},
	{ErrCountryNotFound, KindNotFound, http.StatusNotFound},
	{ErrQuoteNotFound, KindNotFound, http.StatusNotFound},
	{ErrQuoteItemNotFound, KindNotFound, http.StatusNotFound},
	{ErrInvalidStatus, KindInvalidStatus, http.StatusBadRequest},
	{ErrQuoteNotEditable, KindInvalidStatus, http.StatusConflict},
	{ErrPersistenceConflict, KindPersistenceConflict, http.StatusConflict},
}

// ResponseFromError переводит ошибку сервиса в ответ клиенту.
// Неизвестные ошибки скрываются за общим сообщением.
func ResponseFromError(err error) *ErrorResponse {
	var errorResponse *ErrorResponse
	if errors.As(err, &errorResponse) {
		return errorResponse
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return &ErrorResponse{StatusCode: k.status, Kind: k.kind, Message: err.Error()}
		}
	}
	return &ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Kind:       KindInternal,
		Message:    ErrInternalComputation.Error(),
	}
}
