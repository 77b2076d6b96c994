// cmd/auditor/main.go is an asynchronous worker that pops request lifecycle
// events from a Redis queue and persists them to the request_events audit
// table in PostgreSQL.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/skillswap-app/skillswap/internal/database"
	"github.com/skillswap-app/skillswap/internal/models"
)

// AuditorService drains the event queue in batches: a flush happens when the
// batch fills or the flush interval elapses, whichever comes first.
type AuditorService struct {
	redisClient *redis.Client
	batchSize   int
	flushDelay  time.Duration

	batchMu  sync.Mutex
	batch    []models.RequestEvent
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewAuditorService constructs an AuditorService from environment variables
// or defaults.
func NewAuditorService() *AuditorService {
	batchSize := getEnvInt("AUDITOR_BATCH_SIZE", 20)
	flushMs := getEnvInt("AUDITOR_FLUSH_MS", 500)

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &AuditorService{
		redisClient: rdb,
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		batch:       make([]models.RequestEvent, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run connects to the database and drains the queue until the context is
// cancelled.
func (as *AuditorService) Run() {
	database.ConnectDB()

	go as.readRedisLoop()

	log.Println("skillswap-auditor service started.")
	<-as.ctx.Done()
	as.flushBatchToDB()
	log.Println("skillswap-auditor shutting down.")
}

// readRedisLoop continuously uses BLPop to retrieve events from the queue.
func (as *AuditorService) readRedisLoop() {
	ticker := time.NewTicker(as.flushDelay)
	defer ticker.Stop()

	queueName := getEnv("EVENT_QUEUE_NAME", "skillswap_request_events")

	for {
		select {
		case <-as.ctx.Done():
			return

		case <-ticker.C:
			as.flushBatchToDB()

		default:
			// BLPop with a short timeout so context cancellation is handled.
			res, err := as.redisClient.BLPop(as.ctx, 3*time.Second, queueName).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && !errors.Is(err, context.Canceled) {
					log.Errorf("BLPop: %v", err)
				}
				continue
			}
			if len(res) < 2 {
				continue
			}

			// res[0] is the queue name and res[1] the payload.
			var event models.RequestEvent
			if err := json.Unmarshal([]byte(res[1]), &event); err != nil {
				log.Errorf("invalid request event: %v", err)
				continue
			}
			as.appendToBatch(event)
		}
	}
}

// appendToBatch adds an event to the in-memory batch and flushes when the
// threshold is reached.
func (as *AuditorService) appendToBatch(event models.RequestEvent) {
	as.batchMu.Lock()
	flush := false
	as.batch = append(as.batch, event)
	if len(as.batch) >= as.batchSize {
		flush = true
	}
	as.batchMu.Unlock()

	if flush {
		as.flushBatchToDB()
	}
}

// flushBatchToDB writes the current batch in a single transaction. Events
// that fail to persist are logged and dropped; the audit log never blocks
// the API.
func (as *AuditorService) flushBatchToDB() {
	as.batchMu.Lock()
	if len(as.batch) == 0 {
		as.batchMu.Unlock()
		return
	}
	batchCopy := make([]models.RequestEvent, len(as.batch))
	copy(batchCopy, as.batch)
	as.batch = as.batch[:0]
	as.batchMu.Unlock()

	if err := database.InsertRequestEvents(context.Background(), batchCopy); err != nil {
		log.Errorf("flushBatchToDB: %v", err)
		return
	}
	log.Infof("Flushed %d request events to DB.", len(batchCopy))
}

func main() {
	as := NewAuditorService()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		as.cancelFn()
	}()

	as.Run()
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
