package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "coopledger/internal/core/context"
)

func TestAuditService_PrepareSmallChangesStayPlain(t *testing.T) {
	s, err := NewAuditService(nil)
	require.NoError(t, err)

	ctx := appctx.WithActor(context.Background(), &appctx.Actor{StaffName: "alice", Source: "http"})
	entry := AuditEntry{EntityType: "SalesOrder", EntityID: "ORD-1", Action: "settle", Changes: []byte(`{"a":1}`)}
	s.prepare(ctx, &entry)

	assert.Equal(t, CompressionNone, entry.CompressionAlgo)
	assert.Equal(t, json.RawMessage(`{"a":1}`), entry.Changes)
	assert.Nil(t, entry.ChangesCompressed)
	assert.Equal(t, "alice", entry.StaffName)
	assert.Equal(t, "http", entry.Source)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestAuditService_LargeChangesRoundTrip(t *testing.T) {
	s, err := NewAuditService(nil)
	require.NoError(t, err)

	payload := bytes.Repeat([]byte(`{"line":"Mango","qty":2},`), 500)
	entry := AuditEntry{EntityType: "SalesOrder", EntityID: "ORD-2", Action: "settle", Changes: payload}
	s.prepare(context.Background(), &entry)

	require.Equal(t, CompressionZstd, entry.CompressionAlgo)
	assert.Nil(t, entry.Changes)
	assert.Less(t, len(entry.ChangesCompressed), len(payload))
	assert.Equal(t, "system", entry.StaffName)

	require.NoError(t, s.expand(&entry))
	assert.Equal(t, json.RawMessage(payload), entry.Changes)
	assert.Nil(t, entry.ChangesCompressed)
}
