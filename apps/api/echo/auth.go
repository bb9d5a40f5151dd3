package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
)

const contextUserKey = "user"

// Claims represents the authorization claims transmitted via a JWT.
// The role only selects which views the user gets.
type Claims struct {
	jwt.StandardClaims
	Name  string       `json:"name,omitempty"`
	Email string       `json:"email,omitempty"`
	Role  academy.Role `json:"role"`
}

type auth struct {
	appName    string
	expiration time.Duration
	config     middleware.JWTConfig
}

func newAuth(conf *core.Config) *auth {
	return &auth{
		appName:    conf.AppName,
		expiration: conf.Server.JWTExpirationDelta,
		config: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    "userToken",
			Claims:        new(Claims),
		},
	}
}

func (a *auth) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.config)
}

func (a *auth) claims(usr academy.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.appName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(a.expiration).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  usr.Name,
		Email: usr.Email,
		Role:  usr.Role,
	}
}

// token generates a signed JWT token string representing the user claims.
func (a *auth) token(usr academy.User) (string, error) {
	method := jwt.GetSigningMethod(a.config.SigningMethod)
	token := jwt.NewWithClaims(method, a.claims(usr))

	ss, err := token.SignedString(a.config.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// GenerateToken returns a token for usr signed with the configured secret key.
func GenerateToken(conf *core.Config, usr academy.User) (string, error) {
	return newAuth(conf).token(usr)
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get("userToken").(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func (c Claims) hasAnyRole(roles []academy.Role) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

// user is the context user as the claims describe it, for logging.
func (c Claims) user() academy.User {
	return academy.User{ID: c.Subject, Name: c.Name, Email: c.Email, Role: c.Role}
}
