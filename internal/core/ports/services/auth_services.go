package services

import (
	"context"
	"time"
)

// AuthSvc authenticates librarians and issues access tokens.
type AuthSvc interface {
	Login(ctx context.Context, username, password string) (token string, expiresAt time.Time, err error)
}
