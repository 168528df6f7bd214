package adapter

import "context"

// MembershipChecker is the channel-membership collaborator the
// orchestrator waits on during bootstrap. The current implementation
// resolves immediately; the orchestrator must not assume that.
type MembershipChecker interface {
	CheckMembership(ctx context.Context) error
}

// NoopMembership resolves immediately.
type NoopMembership struct{}

func (NoopMembership) CheckMembership(context.Context) error { return nil }
