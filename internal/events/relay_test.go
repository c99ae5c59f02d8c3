package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ecofinds/internal/config"
	"github.com/ecofinds/internal/metrics"
	"github.com/ecofinds/internal/models"
	"github.com/ecofinds/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	failFor  map[string]bool
	closed   bool
}

type publishedMessage struct {
	topic string
	key   string
	value []byte
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failFor[key] {
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, publishedMessage{topic: topic, key: key, value: value})
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func setupOutboxDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.OutboxEvent{}))
	return db
}

func newOutboxEvent(t *testing.T, purchaseID, productID uint) models.OutboxEvent {
	t.Helper()
	event, err := NewPurchaseCreatedOutbox("ecofinds.purchases", models.Purchase{
		ID:           purchaseID,
		CheckoutNo:   "CK-1",
		BuyerID:      1,
		SellerID:     2,
		ProductID:    productID,
		Quantity:     2,
		TotalPrice:   models.MustMoney("100"),
		PurchaseDate: time.Now(),
	})
	require.NoError(t, err)
	return event
}

func TestNewPurchaseCreatedOutbox(t *testing.T) {
	event := newOutboxEvent(t, 5, 9)
	assert.Equal(t, "purchase.created", event.EventType)
	assert.Equal(t, "9", event.EventKey)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "100.00", event.Payload["total_price"])
	assert.EqualValues(t, 5, event.Payload["purchase_id"])
}

func TestRelayRunOncePublishesAndMarksSent(t *testing.T) {
	db := setupOutboxDB(t)
	repo := repository.NewOutboxRepository(db)
	require.NoError(t, repo.Insert([]models.OutboxEvent{newOutboxEvent(t, 1, 10), newOutboxEvent(t, 2, 11)}))

	pub := &fakePublisher{}
	m := metrics.New()
	relay := NewRelay(config.EventsConfig{RelayBatchSize: 10, MaxAttempts: 3}, repo, pub, m)

	sent, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, pub.messages, 2)
	assert.Equal(t, "10", pub.messages[0].key)

	var body PurchaseCreated
	require.NoError(t, json.Unmarshal(pub.messages[0].value, &body))
	assert.EqualValues(t, 1, body.PurchaseID)

	pending, err := repo.CountPending()
	require.NoError(t, err)
	assert.Zero(t, pending)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.OutboxPublished.WithLabelValues("sent")))

	sent, err = relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestRelayRecordsFailuresAndGivesUp(t *testing.T) {
	db := setupOutboxDB(t)
	repo := repository.NewOutboxRepository(db)
	require.NoError(t, repo.Insert([]models.OutboxEvent{newOutboxEvent(t, 1, 10)}))

	pub := &fakePublisher{failFor: map[string]bool{"10": true}}
	relay := NewRelay(config.EventsConfig{MaxAttempts: 2}, repo, pub, nil)

	for i := 0; i < 3; i++ {
		sent, err := relay.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Zero(t, sent)
	}

	var stored models.OutboxEvent
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, 2, stored.Attempts)
	assert.Equal(t, "broker unavailable", stored.LastError)
	assert.Nil(t, stored.SentAt)
}

func TestRelayStartStopsOnCancel(t *testing.T) {
	db := setupOutboxDB(t)
	repo := repository.NewOutboxRepository(db)
	pub := &fakePublisher{}
	relay := NewRelay(config.EventsConfig{RelayIntervalMillis: 10}, repo, pub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Start(ctx) }()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
	require.NoError(t, relay.Stop(context.Background()))
	assert.True(t, pub.closed)
}

func TestKafkaPublisherWithoutBrokers(t *testing.T) {
	pub := NewKafkaPublisher([]string{" ", ""})
	assert.False(t, pub.Enabled())
	assert.Error(t, pub.Publish(context.Background(), "t", "k", []byte("v")))
	assert.NoError(t, pub.Close())
}
