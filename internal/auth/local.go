package auth

import (
	"context"
	"errors"

	"github.com/josiasmanzur02/sevenminutes/internal"
)

// LocalAuthProvider accepts the single device token from config.
// Development only.
type LocalAuthProvider struct {
	Token  string
	logger internal.Logger
}

func NewLocalAuthProvider(token string, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{Token: token, logger: logger}
}

func (a *LocalAuthProvider) ValidateTokenLocal(token string) (*internal.User, error) {
	if token == a.Token {
		return &internal.User{ID: "u1", Token: a.Token, Name: "Device Owner"}, nil
	}
	a.logger.Warnf("invalid token")
	return nil, errors.New("invalid token")
}

func (a *LocalAuthProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error) {
	return nil, errors.New("not implemented in LocalAuthProvider")
}
