package domain

import (
	"errors"
	"fmt"
	"time"
)

// Resultados esperados del pipeline; se mapean a mensajes para el usuario,
// nunca tumban el proceso.
var (
	ErrOriginNotConfigured = errors.New("origin server not configured")
	ErrOriginDisabled      = errors.New("origin server disabled")
	ErrEmptyMessage        = errors.New("empty message")
	ErrMessageTooLong      = errors.New("message too long")
	ErrRateLimited         = errors.New("rate limited")
	ErrNotRegistered       = errors.New("server not registered")
	ErrNameTaken           = errors.New("server name already taken")
	ErrEmptyName           = errors.New("display name required")
	ErrNotAdmin            = errors.New("admin permission required")
	ErrDeliveryFailed      = errors.New("delivery failed")
)

// RateLimitedError lleva el cooldown restante para mostrárselo al usuario.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// DeliveryError envuelve el fallo de transporte hacia un destino concreto.
type DeliveryError struct {
	ServerID string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.ServerID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) Is(target error) bool { return target == ErrDeliveryFailed }
