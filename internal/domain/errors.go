package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated   = errors.New("authentication credentials were not provided")
	ErrPermissionDenied  = errors.New("you do not have permission to perform this action")
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("operation not allowed in current state")
	ErrThrottled         = errors.New("request was throttled")
	ErrInsufficientFunds = errors.New("insufficient available balance")
)

const NonFieldErrors = "non_field_errors"

// ValidationError - ошибки валидации входных данных, сгруппированные по полям
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns nil when nothing was added, so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// PaymentError - ошибка платежного шлюза. Состояние контракта при этом не меняется
type PaymentError struct {
	Op      string
	Message string
	// StatusCode - HTTP статус ответа шлюза, 0 если ответа не было
	StatusCode int
	Err        error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway %s failed: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("payment gateway %s failed: %s", e.Op, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// Rejected reports an explicit refusal by the gateway. Transport errors,
// unreadable answers and 5xx leave the outcome unknown until the webhook arrives.
func (e *PaymentError) Rejected() bool {
	return e.Err == nil && e.StatusCode < http.StatusInternalServerError
}
