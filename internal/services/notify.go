package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/whisperlink/whisperlink-backend/internal/database"
)

// FeedbackEvent is broadcast over Redis and WebSocket when a profile receives
// new feedback. DeleteToken and IP are never included.
type FeedbackEvent struct {
	Type          string    `json:"type"` // "feedback_received"
	ProfileID     string    `json:"profile_id"`
	FeedbackID    string    `json:"feedback_id"`
	Message       string    `json:"message"`
	IsAIGenerated bool      `json:"is_ai_generated"`
	Timestamp     time.Time `json:"timestamp"`
}

const feedbackChannelPrefix = "feedback:profile:"

// DashboardConn is the minimal interface a dashboard WebSocket must satisfy.
type DashboardConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// dashboardHub tracks local dashboard connections per profile.
type dashboardHub struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]map[DashboardConn]struct{}
}

var (
	hub            = &dashboardHub{conns: make(map[uuid.UUID]map[DashboardConn]struct{})}
	subscriberOnce sync.Once
)

// RegisterDashboardConn subscribes a connection to a profile's feedback
// events. The returned func unregisters it.
func RegisterDashboardConn(profileID uuid.UUID, conn DashboardConn) func() {
	hub.mu.Lock()
	if hub.conns[profileID] == nil {
		hub.conns[profileID] = make(map[DashboardConn]struct{})
	}
	hub.conns[profileID][conn] = struct{}{}
	hub.mu.Unlock()

	return func() {
		hub.mu.Lock()
		if set, ok := hub.conns[profileID]; ok {
			delete(set, conn)
			if len(set) == 0 {
				delete(hub.conns, profileID)
			}
		}
		hub.mu.Unlock()
	}
}

// fanOutFeedbackEvent delivers an event to all local connections watching the
// profile. Best-effort; write errors are logged and the reader loop handles
// the disconnect.
func fanOutFeedbackEvent(event FeedbackEvent) {
	profileID, err := uuid.Parse(event.ProfileID)
	if err != nil {
		return
	}

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for conn := range hub.conns[profileID] {
		go func(c DashboardConn) {
			if err := c.WriteJSON(event); err != nil {
				log.Printf("error writing feedback event to websocket: %v", err)
			}
		}(conn)
	}
}

// StartFeedbackSubscriber ensures a single shared Redis listener per instance.
func StartFeedbackSubscriber(ctx context.Context) {
	subscriberOnce.Do(func() {
		go runFeedbackSubscriber(ctx)
	})
}

func runFeedbackSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; feedback subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.PSubscribe(ctx, feedbackChannelPrefix+"*")
			defer pubsub.Close()

			log.Println("✅ Feedback Redis subscriber started (pattern: " + feedbackChannelPrefix + "*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event FeedbackEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal feedback event: %v", err)
					continue
				}

				fanOutFeedbackEvent(event)
			}
		}()
	}
}

// PublishFeedbackEvent publishes an event to Redis; called after a feedback
// row is persisted. Failures are non-fatal: the dashboard catches up on the
// next full load.
func PublishFeedbackEvent(ctx context.Context, event FeedbackEvent) error {
	if database.RedisClient == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return database.RedisClient.Publish(ctx, feedbackChannelPrefix+event.ProfileID, data).Err()
}
