package dto

import commonDto "anoa.com/kulupportal/pkg/dto"

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string                   `json:"access_token"`
	TokenType   string                   `json:"token_type"`
	ExpiresIn   int64                    `json:"expires_in"`
	User        commonDto.MemberResponse `json:"user"`
}

type GoogleLoginResponse struct {
	URL string `json:"url"`
}

// GoogleUser is what the identity provider reports after a completed login.
type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
