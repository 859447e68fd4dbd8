// Package controller holds the per-screen state controllers. Each controller
// owns an in-memory mirror of a slice of repository data and reconciles it
// optimistically: a mutation is sent to the repository first and, once
// confirmed, echoed into the mirror so the screen updates without a reload.
//
// Controllers never publish through a UI framework; they hold plain state and
// fire an optional onChange callback the presentation layer subscribes to.
package controller

import (
	"context"

	"github.com/google/uuid"
)

// Session yields the identity of the signed-in user, for attribution and
// scoping. Production code adapts its token claims; tests use StaticSession.
type Session interface {
	CurrentUserID(ctx context.Context) (uuid.UUID, error)
}

// StaticSession is a Session fixed to one user id.
type StaticSession struct {
	UserID uuid.UUID
}

func (s StaticSession) CurrentUserID(ctx context.Context) (uuid.UUID, error) {
	return s.UserID, nil
}
