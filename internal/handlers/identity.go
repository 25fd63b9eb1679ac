package handlers

import (
	"fmt"

	"itinerary-api/internal/middleware"
	"itinerary-api/pkg/lambda"
)

// IdentityPolicy decides whether a request may act on behalf of userID.
//
// The trip endpoint identifies users by a caller-supplied id that nothing
// authenticates. CallerSuppliedIdentity keeps that behaviour; deployments that
// need ownership checks install SignedIdentity instead.
type IdentityPolicy interface {
	Authorize(req *lambda.Request, userID string) error
}

// IdentityError is returned when a request fails the identity policy
type IdentityError struct {
	Reason string
}

func (e *IdentityError) Error() string {
	return e.Reason
}

// CallerSuppliedIdentity accepts any non-empty userId
type CallerSuppliedIdentity struct{}

// Authorize implements IdentityPolicy
func (CallerSuppliedIdentity) Authorize(req *lambda.Request, userID string) error {
	return nil
}

// SignedIdentity requires a Bearer token whose subject is the resolved userId
type SignedIdentity struct {
	auth *middleware.AuthService
}

// NewSignedIdentity creates a SignedIdentity backed by auth
func NewSignedIdentity(auth *middleware.AuthService) *SignedIdentity {
	return &SignedIdentity{auth: auth}
}

// Authorize implements IdentityPolicy
func (p *SignedIdentity) Authorize(req *lambda.Request, userID string) error {
	token, err := middleware.ExtractBearerToken(req.Header("Authorization"))
	if err != nil {
		return &IdentityError{Reason: err.Error()}
	}

	claims, err := p.auth.ValidateToken(token)
	if err != nil {
		return &IdentityError{Reason: "Invalid or expired token"}
	}

	if claims.Subject != userID {
		return &IdentityError{Reason: fmt.Sprintf("token is not valid for userId %s", userID)}
	}

	return nil
}

// NewIdentityPolicy returns SignedIdentity when auth is configured and
// CallerSuppliedIdentity otherwise
func NewIdentityPolicy(auth *middleware.AuthService) IdentityPolicy {
	if auth == nil {
		return CallerSuppliedIdentity{}
	}
	return NewSignedIdentity(auth)
}
