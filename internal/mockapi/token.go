// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bureau-foundation/parkir/lib/schema/parking"
)

// Issuer is the iss claim of every token the server signs.
const Issuer = "parkir-mockapi"

var errTokenRevoked = errors.New("token has been revoked")

// Claims is the token payload.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(profile parking.Profile) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		Email: profile.Email,
		Name:  profile.Name,
		Role:  profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Subject:   strconv.FormatInt(profile.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// parseToken verifies signature, issuer and expiry, then rejects
// revoked token IDs.
func (s *Server) parseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, err
	}
	if s.isRevoked(claims.ID) {
		return nil, errTokenRevoked
	}
	return claims, nil
}
