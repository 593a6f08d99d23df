package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sheets-editor-be/internal/dto"
	"sheets-editor-be/pkg/events"
	"sheets-editor-be/pkg/serializer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const saveTopic = "SAVE_SHEET_CONTENT"

func saveMessage(t *testing.T, sheetID, userID uuid.UUID, html string) []byte {
	t.Helper()
	payload, err := json.Marshal(dto.SaveSheetMessage{
		SheetId:   sheetID,
		UserId:    userID,
		SessionId: "sess-1",
		Content:   []serializer.PayloadItem{{Position: 0, Type: serializer.PayloadContent, Content: html}},
		Html:      html,
	})
	require.NoError(t, err)
	return payload
}

func startConsumer(t *testing.T, table *sheetTable, pub *fakeEventPublisher, notifier *fakeNotifier, debounce time.Duration) (IPublisherService, IConsumerService) {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	var eventPublisher events.Publisher
	if pub != nil {
		eventPublisher = pub
	}
	consumer := NewConsumerService(pubSub, saveTopic, table, eventPublisher, notifier, debounce, nopLogger)
	require.NoError(t, consumer.Consume(context.Background()))
	return NewPublisherService(saveTopic, pubSub), consumer
}

func TestConsumerDebouncesSaves(t *testing.T) {
	userID := uuid.New()
	sheet := sheetWithHTML(userID, "<p>v0</p>")
	table := newSheetTable(sheet)
	pub := &fakeEventPublisher{}
	publisher, _ := startConsumer(t, table, pub, newFakeNotifier(), 50*time.Millisecond)

	ctx := context.Background()
	for _, html := range []string{"<p>v1</p>", "<p>v2</p>", "<p>v3</p>"} {
		require.NoError(t, publisher.Publish(ctx, saveMessage(t, sheet.Id, userID, html)))
	}

	require.Eventually(t, func() bool { return table.updateCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, table.updateCount())

	saved, _ := table.get(sheet.Id)
	assert.Equal(t, "<p>v3</p>", saved.Html)
	assert.Equal(t, 1, saved.Version)

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.SheetSaved, published[0].EventType())
	assert.Equal(t, "sess-1", published[0].Payload()["session_id"])
}

func TestConsumerNotifiesDirectlyWithoutBus(t *testing.T) {
	userID := uuid.New()
	sheet := sheetWithHTML(userID, "<p>v0</p>")
	table := newSheetTable(sheet)
	notifier := newFakeNotifier()
	publisher, _ := startConsumer(t, table, nil, notifier, 10*time.Millisecond)

	require.NoError(t, publisher.Publish(context.Background(), saveMessage(t, sheet.Id, userID, "<p>v1</p>")))

	select {
	case p := <-notifier.pushes:
		assert.Equal(t, "sess-1", p.SessionID)
		assert.Equal(t, MessageSaved, p.Type)
		notice, ok := p.Data.(dto.SheetSavedNotice)
		require.True(t, ok)
		assert.Equal(t, sheet.Id, notice.SheetId)
		assert.Equal(t, 1, notice.Version)
	case <-time.After(2 * time.Second):
		t.Fatal("no saved notice pushed")
	}
}

func TestConsumerFlush(t *testing.T) {
	userID := uuid.New()
	sheet := sheetWithHTML(userID, "<p>v0</p>")
	table := newSheetTable(sheet)
	publisher, consumer := startConsumer(t, table, &fakeEventPublisher{}, newFakeNotifier(), time.Hour)

	require.NoError(t, publisher.Publish(context.Background(), saveMessage(t, sheet.Id, userID, "<p>flushed</p>")))

	// The message is acked once scheduled, so wait for it to be pending.
	require.Eventually(t, func() bool {
		cs := consumer.(*consumerService)
		cs.mu.Lock()
		defer cs.mu.Unlock()
		return len(cs.pending) == 1
	}, 2*time.Second, 10*time.Millisecond)

	consumer.Flush(context.Background())

	saved, _ := table.get(sheet.Id)
	assert.Equal(t, "<p>flushed</p>", saved.Html)
	assert.Equal(t, 1, table.updateCount())
}

func TestConsumerIgnoresForeignSheet(t *testing.T) {
	sheet := sheetWithHTML(uuid.New(), "<p>v0</p>")
	table := newSheetTable(sheet)
	pub := &fakeEventPublisher{}
	publisher, consumer := startConsumer(t, table, pub, newFakeNotifier(), time.Hour)

	require.NoError(t, publisher.Publish(context.Background(), saveMessage(t, sheet.Id, uuid.New(), "<p>hijack</p>")))
	require.Eventually(t, func() bool {
		cs := consumer.(*consumerService)
		cs.mu.Lock()
		defer cs.mu.Unlock()
		return len(cs.pending) == 1
	}, 2*time.Second, 10*time.Millisecond)
	consumer.Flush(context.Background())

	saved, _ := table.get(sheet.Id)
	assert.Equal(t, "<p>v0</p>", saved.Html)
	assert.Empty(t, pub.published())
}
