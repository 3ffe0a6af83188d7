package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type authResponse struct {
	AccessToken string `json:"accessToken"`
}

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Age       int    `json:"age" validate:"min=1"`
	Gender    string `json:"gender" validate:"required,oneof=MALE FEMALE"`
}

// Login exchanges credentials for a bearer token and installs it on the
// client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", errors.New("email and password are required")
	}

	body := map[string]string{"email": email, "password": password}
	var res authResponse
	if err := c.postJSON(ctx, fmt.Sprintf("%s/auth/login", c.baseURL), body, &res, nil); err != nil {
		return "", err
	}
	if res.AccessToken == "" {
		return "", errors.New("login response carried no token")
	}
	c.SetToken(res.AccessToken)
	return res.AccessToken, nil
}

// Register creates an account and installs the returned token.
func (c *Client) Register(ctx context.Context, input RegisterInput) (string, error) {
	var res authResponse
	if err := c.postJSON(ctx, fmt.Sprintf("%s/auth/register", c.baseURL), input, &res, nil); err != nil {
		return "", err
	}
	if res.AccessToken == "" {
		return "", errors.New("register response carried no token")
	}
	c.SetToken(res.AccessToken)
	return res.AccessToken, nil
}

// RoleFromToken decodes the role claim without verifying the signature.
// Verification is the server's job; the claim only gates which screens the
// UI offers, never what the API permits.
func RoleFromToken(token string) (Role, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	raw, _ := claims["role"].(string)
	if Role(raw) == RoleAdmin {
		return RoleAdmin, nil
	}
	return RoleUser, nil
}
