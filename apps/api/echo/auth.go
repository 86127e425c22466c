package echoapi

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/elimucd/backend/core"
	"github.com/elimucd/backend/core/role"
)

var (
	// appJWTConfig is the default JWT auth middleware config. Tokens are
	// issued by the identity service; this API only verifies them.
	appJWTConfig = middleware.JWTConfig{
		SigningKey:    []byte(core.Conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
	contextRoleKey = "userRole"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

func NewClaims(userID, username, email, roleName string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   userID,
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: username,
		Email:    email,
		Role:     roleName,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextRole resolves the caller's role from the catalog. A role name
// that is no longer in the catalog resolves to nil (no permissions), except
// the admin role which keeps working even before the catalog is seeded.
func getContextRole(ctx echo.Context, svc role.Service) (*role.Role, error) {
	if r, ok := ctx.Get(contextRoleKey).(*role.Role); ok {
		return r, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context claims")
	}
	if claims.Role == "" {
		return nil, nil
	}

	r, err := svc.GetByName(ctx.Request().Context(), claims.Role)
	if err != nil {
		if errors.Cause(err) == role.ErrNotFound {
			if claims.Role == role.RoleAdmin {
				return &role.Role{Name: role.RoleAdmin}, nil
			}
			return nil, nil
		}
		return nil, errors.Wrap(err, "finding role by name")
	}
	ctx.Set(contextRoleKey, &r)
	return &r, nil
}
