package core

import (
	"context"
	"errors"
)

var (
	// ErrVerificationFailed is returned by an Authenticator when the supplied
	// credential does not check out for the given email.
	ErrVerificationFailed = errors.New("credential verification failed")
)

type (
	// Identity is the verified identity an Authenticator vouches for.
	Identity struct {
		ID    string
		Email string
	}

	// Authenticator is any service that can independently verify an admin's
	// credential. The hosted auth service owns the credentials; we never
	// compare them ourselves in production.
	Authenticator interface {
		VerifyCredential(ctx context.Context, email, credential string) (Identity, error)
	}
)
