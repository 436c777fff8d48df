package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokers(t *testing.T) {
	assert.Nil(t, Brokers(""))
	assert.Nil(t, Brokers(" , "))
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, Brokers("kafka-1:9092, kafka-2:9092,"))
}

func TestDecode(t *testing.T) {
	event, err := Decode([]byte(`{"type":"import.requested","offset":4000,"requested_by":"api"}`))
	require.NoError(t, err)
	assert.Equal(t, EventImportRequested, event.Type)
	assert.Equal(t, 4000, event.Offset)
	assert.Equal(t, "api", event.RequestedBy)

	_, err = Decode([]byte("not json"))
	assert.Error(t, err)
}
