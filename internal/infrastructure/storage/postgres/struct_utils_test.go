package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"coopledger/internal/core/types"
	"coopledger/internal/domain/purchase"
)

type Stamped struct {
	CreatedAt time.Time `db:"created_at"`
}

type lot struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Note string `db:"-"`
	Stamped
}

func TestExtractDBColumns(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "created_at"}, ExtractDBColumns[lot]())

	cols := ExtractDBColumns[purchase.Line]()
	assert.Contains(t, cols, "order_number")
	assert.Contains(t, cols, "total_price")
	assert.NotContains(t, cols, "Total")
}

func TestStructToMap_Embedded(t *testing.T) {
	now := time.Now().UTC()
	m := StructToMap(&lot{ID: 3, Name: "Mango", Note: "x", Stamped: Stamped{CreatedAt: now}})

	assert.Equal(t, int64(3), m["id"])
	assert.Equal(t, "Mango", m["name"])
	assert.Equal(t, now, m["created_at"])
	assert.NotContains(t, m, "Note")
	assert.Nil(t, StructToMap(42))
}

func TestInsertMap_SkipsGenerated(t *testing.T) {
	line := purchase.NewLine("ORD-1", 1, "Mango", "fruit", "kg", 2, types.NewMoneyFromInt(30), time.Now(), "ann")

	m := InsertMap(line, ExtractDBColumns[purchase.Line](), "id", "created_at")
	assert.NotContains(t, m, "id")
	assert.NotContains(t, m, "created_at")
	assert.Equal(t, "ORD-1", m["order_number"])
	assert.True(t, types.NewMoneyFromInt(60).Equal(m["total_price"].(types.Money)))
}
