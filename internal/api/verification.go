package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// SendVerificationCode asks the backend to text a one-time code to phone and
// returns the verification ID that must accompany the code.
func (c *Client) SendVerificationCode(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", fmt.Errorf("api: send code: phone number is required")
	}
	var resp struct {
		VerificationID string `json:"verificationId"`
	}
	body := map[string]string{"phoneNumber": phone}
	if err := c.do(ctx, http.MethodPost, "/auth/phone/send", nil, body, &resp); err != nil {
		return "", err
	}
	if resp.VerificationID == "" {
		return "", fmt.Errorf("api: POST /auth/phone/send: %w: missing verificationId", ErrMalformedResponse)
	}
	return resp.VerificationID, nil
}

// ConfirmVerificationCode exchanges a verification ID and code for a session token.
func (c *Client) ConfirmVerificationCode(ctx context.Context, verificationID, code string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"verificationId": verificationID, "code": strings.TrimSpace(code)}
	if err := c.do(ctx, http.MethodPost, "/auth/phone/verify", nil, body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("api: POST /auth/phone/verify: %w: missing token", ErrMalformedResponse)
	}
	return resp.Token, nil
}
