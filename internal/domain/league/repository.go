package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID int64) (League, bool, error)
	GetByInviteCode(ctx context.Context, code string) (League, bool, error)
	Create(ctx context.Context, l League) (League, error)
	Update(ctx context.Context, l League) error

	ListMembers(ctx context.Context, leagueID int64) ([]Member, error)
	IsMember(ctx context.Context, leagueID, userID int64) (bool, error)
	AddMember(ctx context.Context, m Member) error
}
