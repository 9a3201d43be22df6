package echoapi

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/tathmini/core"
	"github.com/trezcool/tathmini/core/admin"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningKey:    core.Conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "adminToken",
		Claims:        new(Claims),
	}
	contextAdminKey = "admin"
)

// Claims represents the authorization claims transmitted via a JWT.
// Holding a valid token is the session: the registry entry rode in at login.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
}

func GetAdminClaims(adm admin.Admin, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   adm.ID,
			Audience:  "AdminPortal",
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Name:         adm.Name,
		Email:        adm.Email,
	}
	return claims
}

// authenticate runs the login checks. An unknown email and a rejected
// credential both map to errAuthenticationFailed so callers cannot
// probe which admins exist.
func authenticate(ctx context.Context, email, pwd string, svc admin.ServiceInterface) (*Claims, error) {
	adm, err := svc.Authenticate(ctx, email, pwd)
	if err != nil {
		switch errors.Cause(err) {
		case admin.ErrNotFound, core.ErrVerificationFailed:
			return nil, errAuthenticationFailed
		case admin.ErrAccountDeactivated:
			return nil, errAccountDeactivated
		}
		return nil, errors.Wrap(err, "authenticating")
	}
	return GetAdminClaims(adm), nil
}

// GenerateToken generates a signed JWT token string representing the admin Claims.
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

func getContextAdmin(ctx echo.Context, svc admin.ServiceInterface, clms ...Claims) (admin.Admin, error) {
	if adm, ok := ctx.Get(contextAdminKey).(admin.Admin); ok {
		return adm, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return admin.Admin{}, errors.Wrap(err, "getting context claims")
		}
	}

	adm, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return admin.Admin{}, errors.Wrap(err, "finding admin by ID")
	}
	ctx.Set(contextAdminKey, adm)
	return adm, nil
}

func refreshToken(ctx echo.Context, svc admin.ServiceInterface) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	adm, err := getContextAdmin(ctx, svc, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context admin")
	}

	// check if admin is still active
	if adm.IsActive != nil && !*adm.IsActive {
		return "", errAccountDeactivated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(core.Conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := GetAdminClaims(adm, claims.OrigIssuedAt)
	token, err := GenerateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}
