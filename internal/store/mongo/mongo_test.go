package mongo

import (
	"testing"

	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToRecord(t *testing.T) {
	rec := toRecord(bson.M{
		"_id":        "a1",
		"_seq":       int64(42),
		"version":    int32(3),
		"customerId": "c1",
	})

	assert.Equal(t, "a1", rec.ID)
	assert.Equal(t, int64(3), rec.Version)
	assert.Equal(t, store.Document{"customerId": "c1"}, rec.Data)
}

func TestToRecord_LegacyWithoutVersion(t *testing.T) {
	rec := toRecord(bson.M{"_id": "a1", "status": "confirmed"})
	assert.Equal(t, int64(0), rec.Version)
}

func TestUpdateOf(t *testing.T) {
	update := updateOf(store.Document{"status": "cancelled", "version": 99, "id": "x"})

	assert.Equal(t, bson.M{"version": 1}, update["$inc"])
	assert.Equal(t, bson.M{"status": "cancelled"}, update["$set"])

	empty := updateOf(store.Document{})
	_, hasSet := empty["$set"]
	assert.False(t, hasSet)
}
