package errors

import "fmt"

var (
	ErrInvalidToken       = fmt.Errorf("invalid authentication token")
	ErrNotAuthenticated   = fmt.Errorf("user not authenticated")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("invalid password")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrInvalidPayload     = fmt.Errorf("invalid telemetry payload")
)
