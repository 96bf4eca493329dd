// internal/historian/historian_test.go
package historian

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fanxiao/doudizhu/internal/game"
)

// Minimal queue test: write one hand record to Redis and confirm the payload
// round-trips. A deeper test requires a running Redis + DB instance.
func TestQueuePayloadRoundTrip(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	rec := game.HandRecord{
		RoomID:       uuid.New(),
		HandNum:      1,
		WinnerSide:   "peasants",
		LandlordSeat: 2,
		Bid:          2,
		Multiplier:   2,
		Score:        4,
		Timestamp:    time.Now(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	const queue = "ddz_hands_test"
	if err := rdb.RPush(ctx, queue, data).Err(); err != nil {
		t.Fatalf("failed to rpush: %v", err)
	}

	res, err := rdb.BLPop(ctx, time.Second, queue).Result()
	if err != nil {
		t.Fatalf("failed to blpop: %v", err)
	}
	var got game.HandRecord
	if err := json.Unmarshal([]byte(res[1]), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RoomID != rec.RoomID || got.Score != rec.Score {
		t.Fatalf("record mangled in transit: %+v", got)
	}
}

// A full end-to-end test needs Docker-based Redis + Postgres: start the
// historian, push records, wait, check hand_records and player_scores.
func TestHistorianEndToEnd(t *testing.T) {
	t.Skip("requires docker-based redis + postgres")
}
