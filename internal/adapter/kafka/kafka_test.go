package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/safetynet-alerts-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	event := domain.ChangeEvent{
		ID:         "3f2b8c9e-0000-4000-8000-000000000001",
		Entity:     domain.EntityPerson,
		Action:     domain.ActionUpdated,
		Key:        "John Boyd",
		OccurredAt: now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("John Boyd"), msg.Key)
	assert.Contains(t, string(msg.Value), `"entity":"person"`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "entity", msg.Headers[0].Key)
	assert.Equal(t, []byte("person"), msg.Headers[0].Value)
	assert.Equal(t, "action", msg.Headers[1].Key)
	assert.Equal(t, []byte("updated"), msg.Headers[1].Value)
	assert.Equal(t, "occurred_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)

	var decoded domain.ChangeEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)
}
