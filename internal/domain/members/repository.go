package members

import (
	"context"
)

// Repository defines read access to members.
type Repository interface {
	List(ctx context.Context) ([]Member, error)
}
