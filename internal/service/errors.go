package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid marks input the caller must fix.
	ErrInvalid = errors.New("invalid input")
	// ErrVerification means the SMTP server rejected the credentials.
	ErrVerification = errors.New("verification failed")
	// ErrDelivery means a message could not be handed to the SMTP server.
	ErrDelivery = errors.New("delivery failed")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
