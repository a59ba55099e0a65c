package utils // package utils provides helper functions for session tokens and hashing

import (
	"errors"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken represents a signed JWT stored in the session cookie along
// with its expiry.  The Token field contains the JWT string.  Exp stores the
// expiration timestamp as a time.Time.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// SessionClaims is the decoded content of a session token: who is logged in
// and what they are allowed to do.
type SessionClaims struct {
	UserID   uint64 // primary key of the users row
	Username string // display name shown in the navigation bar
	Role     string // "admin" or "user"
}

// ErrInvalidSession is returned when a session cookie cannot be parsed or
// fails signature/expiry validation.
var ErrInvalidSession = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT for a logged-in user.  It
// takes the signing secret, the user's identity and role, and a TTL in
// minutes.  The JWT includes standard claims: subject (sub), username,
// role, expiration (exp) and issued at (iat).
func NewSessionToken(secret string, userID uint64, username, role string, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"role":     role,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates a session JWT and extracts its claims.  Any
// parse failure, wrong signing method, bad signature or expired token is
// reported as ErrInvalidSession; callers treat all of these as "not logged
// in" rather than distinguishing between them.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidSession
	}
	out := SessionClaims{}
	if sub, ok := claims["sub"].(float64); ok {
		out.UserID = uint64(sub)
	}
	if name, ok := claims["username"].(string); ok {
		out.Username = name
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if out.UserID == 0 || out.Role == "" {
		return SessionClaims{}, ErrInvalidSession
	}
	return out, nil
}
