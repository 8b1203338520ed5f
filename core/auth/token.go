package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/user"
)

var signingMethod = jwt.SigningMethodHS256

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	ID           string `json:"id"`
	Role         string `json:"role"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	OrigIssuedAt int64  `json:"oriat,omitempty"`
}

// Profile returns the identity carried by the token.
func (c Claims) Profile() user.Profile {
	return user.Profile{ID: c.ID, Name: c.Name, Email: c.Email, Role: c.Role}
}

// Issuer signs and verifies tokens with a server-held secret.
type Issuer struct {
	appName           string
	secretKey         []byte
	expirationDelta   time.Duration
	refreshExpiration time.Duration

	NowFunc func() time.Time // mockable
}

func NewIssuer(conf *core.Config) *Issuer {
	return &Issuer{
		appName:           conf.AppName,
		secretKey:         []byte(conf.SecretKey),
		expirationDelta:   conf.Server.JWTExpirationDelta,
		refreshExpiration: conf.Server.JWTRefreshExpirationDelta,
		NowFunc:           time.Now,
	}
}

// UserClaims builds the claims of `usr`. origIat keeps the original issue time across refreshes.
func (iss *Issuer) UserClaims(usr user.Profile, origIat ...int64) *Claims {
	now := iss.NowFunc()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    iss.appName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(iss.expirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		ID:           usr.ID,
		Role:         usr.Role,
		Name:         usr.Name,
		Email:        usr.Email,
		OrigIssuedAt: oriat,
	}
}

// IssueToken generates a signed JWT token string representing the user Claims.
func (iss *Issuer) IssueToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(signingMethod, claims)
	ss, err := token.SignedString(iss.secretKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// VerifyToken checks the signature and expiry of `token` and returns its Claims.
func (iss *Issuer) VerifyToken(token string) (*Claims, error) {
	if token == "" {
		return nil, core.ErrUnauthenticated
	}
	claims := new(Claims)
	parser := jwt.Parser{ValidMethods: []string{signingMethod.Alg()}, SkipClaimsValidation: true}
	tkn, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return iss.secretKey, nil
	})
	if err != nil || !tkn.Valid {
		return nil, core.ErrUnauthenticated
	}
	// expiry is checked against NowFunc so it can be tested
	if !claims.VerifyExpiresAt(iss.NowFunc().Unix(), true) {
		return nil, core.ErrUnauthenticated
	}
	return claims, nil
}

// RefreshToken issues a new token for `claims` unless the refresh window, counted
// from the first login, has elapsed.
func (iss *Issuer) RefreshToken(claims Claims) (string, error) {
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(iss.refreshExpiration)
	if iss.NowFunc().After(expTime) {
		return "", core.ErrUnauthenticated
	}
	return iss.IssueToken(iss.UserClaims(claims.Profile(), claims.OrigIssuedAt))
}
