package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"coopledger/internal/domain/members"
	"coopledger/internal/infrastructure/storage/postgres"
)

const membersTable = "mem_members"

// MemberRepo implements members.Repository.
type MemberRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ members.Repository = (*MemberRepo)(nil)

// NewMemberRepo creates a new member repository.
func NewMemberRepo(txm *postgres.TxManager) *MemberRepo {
	return &MemberRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *MemberRepo) listQuery() squirrel.SelectBuilder {
	return r.builder.
		Select(postgres.ExtractDBColumns[members.Member]()...).
		From(membersTable).
		OrderBy("id")
}

func (r *MemberRepo) List(ctx context.Context) ([]members.Member, error) {
	sql, args, err := r.listQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := make([]members.Member, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return out, nil
}
