package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"clinic-booking/internal/model"
)

var ErrBadToken = errors.New("invalid token")

// PasswordHasher turns a password into the value stored in the accounts
// file and checks a login attempt against it.
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Check(stored, pw string) bool
}

// Plain stores passwords as typed. It keeps users.txt readable by older
// copies of the application.
type Plain struct{}

func (Plain) Hash(pw string) (string, error) { return pw, nil }

func (Plain) Check(stored, pw string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(pw)) == 1
}

type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	return string(h), err
}

func (Bcrypt) Check(stored, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(pw)) == nil
}

func NewHasher(kind string) (PasswordHasher, error) {
	switch kind {
	case "", "plain":
		return Plain{}, nil
	case "bcrypt":
		return Bcrypt{}, nil
	}
	return nil, fmt.Errorf("unknown password hashing %q", kind)
}

type Claims struct {
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

const tokenTTL = 12 * time.Hour

func MakeToken(s model.Session, secret string) (string, error) {
	c := Claims{
		Username: s.Username,
		Role:     s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

func ParseToken(raw, secret string) (model.Session, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return model.Session{}, err
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || c.Username == "" || !c.Role.Valid() {
		return model.Session{}, ErrBadToken
	}
	return model.Session{Role: c.Role, Username: c.Username}, nil
}
