package jwttoken

import (
	"slices"

	dErrors "wasl/pkg/domain-errors"
	authmw "wasl/pkg/platform/middleware/auth"
)

// OperatorValidator checks bearer tokens for the auth middleware. When roles
// are configured, tokens carrying any other role are refused.
type OperatorValidator struct {
	service *JWTService
	roles   []string
}

func NewOperatorValidator(service *JWTService, roles ...string) *OperatorValidator {
	return &OperatorValidator{service: service, roles: roles}
}

func (v *OperatorValidator) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := v.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.OperatorID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no operator")
	}
	if len(v.roles) > 0 && !slices.Contains(v.roles, claims.Role) {
		return nil, dErrors.Newf(dErrors.CodeUnauthorized, "role %q may not operate on candidates", claims.Role)
	}
	return &authmw.JWTClaims{
		OperatorID: claims.OperatorID,
		Name:       claims.Name,
		Role:       claims.Role,
		JTI:        claims.ID,
	}, nil
}
