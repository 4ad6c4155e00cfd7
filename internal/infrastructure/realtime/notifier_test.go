package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stocker/backend/internal/domain/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopNotifier_Publish(t *testing.T) {
	tenant, err := directory.NewTenant("acme", "Acme Corp")
	require.NoError(t, err)

	notifier := NewNoopNotifier()
	err = notifier.Publish(context.Background(), tenant.GetDomainEvents()...)
	assert.NoError(t, err)
}

func TestEnvelope_Marshal(t *testing.T) {
	tenant, err := directory.NewTenant("acme", "Acme Corp")
	require.NoError(t, err)

	events := tenant.GetDomainEvents()
	require.Len(t, events, 1)
	event := events[0]

	envelope := Envelope{
		Event:       event.EventType(),
		Group:       GroupTenant(event.TenantID()),
		AggregateID: event.AggregateID().String(),
		OccurredAt:  event.OccurredAt(),
		Payload:     event,
	}

	data, err := json.Marshal(envelope)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, EventTenantCreated, decoded["event"])
	assert.Equal(t, GroupTenant(tenant.ID), decoded["group"])
	assert.Equal(t, tenant.ID.String(), decoded["aggregate_id"])

	payload, ok := decoded["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "acme", payload["code"])
}
