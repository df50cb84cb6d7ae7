package main

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 72 * time.Hour

var errInvalidToken = errors.New("invalid token")

type tokenIssuer struct {
	secret []byte
}

func (t *tokenIssuer) issue(userID, username string) (string, error) {
	claims := jwt.MapClaims{
		"id":       userID,
		"username": username,
		"exp":      time.Now().Add(tokenLifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// parse validates tok and returns the subject user id.
func (t *tokenIssuer) parse(tok string) (string, error) {
	parsed, err := jwt.Parse(tok, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", errInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return "", errInvalidToken
	}
	return id, nil
}
