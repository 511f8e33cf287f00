package catalog_repo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepo_ByNameQuery(t *testing.T) {
	repo := NewProductRepo(nil)

	sql, args, err := repo.byNameQuery("Mango").ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, name, category, member_name, unit, price, quantity, created_at FROM prod_products WHERE name = $1 ORDER BY id LIMIT 1",
		sql)
	assert.Equal(t, []any{"Mango"}, args)
}

func TestProductRepo_DecrementIsSingleStatement(t *testing.T) {
	assert.Equal(t, 1, strings.Count(decrementSQL, "UPDATE"))
	assert.Contains(t, decrementSQL, "FOR UPDATE")
	assert.Contains(t, decrementSQL, "GREATEST(0, prev.quantity - $2)")
	assert.Contains(t, decrementSQL, "RETURNING prev.quantity, p.quantity")
}

func TestMemberRepo_ListQuery(t *testing.T) {
	sql, args, err := NewMemberRepo(nil).listQuery().ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, name, occupation, share_count FROM mem_members ORDER BY id", sql)
	assert.Empty(t, args)
}
