package utils

import (
	"os"
	"time"

	"github.com/kataras/iris/v12/middleware/jwt"
)

// AccessToken is the claim set behind every authenticated request. There are
// no per-user accounts: a PIN selects the role and the token carries it.
type AccessToken struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// CreateAccessToken signs a role token with the shared secret. Tokens expire
// after a day, matching a working session.
func CreateAccessToken(username string, role Role) (string, error) {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 24*time.Hour)

	claims := AccessToken{
		Username: username,
		Role:     string(role),
	}

	token, err := signer.Sign(claims)
	if err != nil {
		return "", err
	}

	return string(token), nil
}
