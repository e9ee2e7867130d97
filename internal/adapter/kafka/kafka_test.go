package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"datetime":"10/10/1949 20:30"}`),
		Topic:     "raw-ufo-sightings",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("scrubbed.csv")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"datetime":"10/10/1949 20:30"}`, string(raw.Value))
	assert.Equal(t, "raw-ufo-sightings", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "scrubbed.csv", raw.Headers["source"])
	assert.Nil(t, raw.Commit, "commit is attached by the reader")
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	rec := domain.RawSightingRecord{
		DateTime:  "10/10/1949 20:30",
		City:      "san marcos",
		State:     "tx",
		Country:   "us",
		Shape:     "cylinder",
		Latitude:  "29.8830556",
		Longitude: "-97.9411111",
	}

	msg, err := serializeToMessage(rec, "scrubbed.csv", now)
	require.NoError(t, err)

	assert.Equal(t, []byte("10/10/1949 20:30|29.8830556|-97.9411111"), msg.Key)
	assert.Contains(t, string(msg.Value), `"shape":"cylinder"`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "source", msg.Headers[0].Key)
	assert.Equal(t, []byte("scrubbed.csv"), msg.Headers[0].Value)
	assert.Equal(t, "published_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_ParsesBack(t *testing.T) {
	rec := domain.RawSightingRecord{
		DateTime:        "10/10/1949 20:30",
		DurationSeconds: "2700",
		Comments:        "This event took place in early fall around 1949-50&#44",
		Latitude:        "29.8830556",
		Longitude:       "-97.9411111",
	}

	msg, err := serializeToMessage(rec, "test", time.Now())
	require.NoError(t, err)

	var back domain.RawSightingRecord
	require.NoError(t, json.Unmarshal(msg.Value, &back))
	assert.Equal(t, rec, back)

	s, err := domain.ParseRawEvent(mapMessageToRawEvent(kafkago.Message{Value: msg.Value}))
	require.NoError(t, err)
	assert.Equal(t, 1949, s.DateTime.Year())
	assert.Equal(t, 2700.0, s.EncounterSeconds)
}
