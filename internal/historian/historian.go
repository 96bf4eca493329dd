// Package historian drains finished-hand records from the Redis queue and
// persists them to Postgres in batches, off the game servers' hot path.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/fanxiao/doudizhu/internal/database"
	"github.com/fanxiao/doudizhu/internal/game"
)

// Service encapsulates the Redis + DB logic for capturing hand records.
type Service struct {
	redisClient *redis.Client
	queueName   string
	batchSize   int
	flushDelay  time.Duration

	batchMu  sync.Mutex
	batch    []game.HandRecord
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewService constructs a Service from environment variables or defaults.
func NewService() *Service {
	batchSize := getEnvInt("HISTORIAN_BATCH_SIZE", 20)
	flushMs := getEnvInt("HISTORIAN_FLUSH_MS", 500)

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		redisClient: rdb,
		queueName:   getEnv("HISTORIAN_QUEUE_NAME", "ddz_hands"),
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		batch:       make([]game.HandRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run connects to the database and blocks consuming the queue until Stop is
// called.
func (hs *Service) Run() {
	database.ConnectDB()

	go hs.readRedisLoop()

	log.Info("doudizhu-historian service started")
	<-hs.ctx.Done()
	hs.flushBatchToDB()
	log.Info("doudizhu-historian shutting down")
}

// Stop gracefully stops the service, flushing any buffered records.
func (hs *Service) Stop() {
	hs.cancelFn()
}

// readRedisLoop continuously uses BLPop to retrieve records from the Redis
// queue, accumulating them into the batch and flushing on a timer.
func (hs *Service) readRedisLoop() {
	ticker := time.NewTicker(hs.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-hs.ctx.Done():
			return

		case <-ticker.C:
			hs.flushBatchToDB()

		default:
			// BLPop with a short timeout so context cancellation is handled.
			res, err := hs.redisClient.BLPop(hs.ctx, 3*time.Second, hs.queueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				if hs.ctx.Err() != nil {
					return
				}
				log.Errorf("BLPop: %v", err)
				continue
			}
			if len(res) < 2 {
				continue
			}

			// res[0] is the queue name and res[1] the payload.
			var rec game.HandRecord
			if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
				log.Warnf("invalid hand record: %v", err)
				continue
			}
			hs.appendToBatch(rec)
		}
	}
}

// appendToBatch adds a record to the in-memory batch and flushes if the
// threshold is reached.
func (hs *Service) appendToBatch(rec game.HandRecord) {
	hs.batchMu.Lock()
	flush := false
	hs.batch = append(hs.batch, rec)
	if len(hs.batch) >= hs.batchSize {
		flush = true
	}
	hs.batchMu.Unlock()

	if flush {
		hs.flushBatchToDB()
	}
}

// flushBatchToDB writes the current batch to the database in one transaction.
func (hs *Service) flushBatchToDB() {
	hs.batchMu.Lock()
	if len(hs.batch) == 0 {
		hs.batchMu.Unlock()
		return
	}
	batchCopy := make([]game.HandRecord, len(hs.batch))
	copy(batchCopy, hs.batch)
	hs.batch = hs.batch[:0]
	hs.batchMu.Unlock()

	ctx := context.Background()
	err := pgx.BeginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range batchCopy {
			if err := database.InsertHandRecordTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insert hand record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Errorf("flushBatchToDB: %v", err)
		return
	}
	log.Infof("Flushed %d hand records to DB", len(batchCopy))
}

// getEnv retrieves an environment variable's value or returns a default.
func getEnv(key, defVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defVal
}

// getEnvInt retrieves an integer from an environment variable or a default.
func getEnvInt(key string, defVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defVal
	}
	return i
}
