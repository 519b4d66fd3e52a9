//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"bankqr/internal/usage"
	"bankqr/pkg/testutil/containers"
)

type KafkaPublisherSuite struct {
	suite.Suite
	broker *containers.RedpandaContainer
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.broker = containers.GetManager().GetRedpanda(s.T())
}

func (s *KafkaPublisherSuite) TestPublishedEventsAreConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const topic = "bankqr-usage-test"
	pub, err := NewKafka([]string{s.broker.Broker}, topic)
	s.Require().NoError(err)

	at := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	pub.Publish(ctx, usage.Event{Day: "2026-01-15", Label: "Primary", At: at})
	pub.Publish(ctx, usage.Event{Day: "2026-01-15", Label: "Synthetic", At: at})
	s.Require().NoError(pub.Close(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var got []usage.Event
	for len(got) < 2 {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(ctx.Err())
		fetches.EachRecord(func(r *kgo.Record) {
			s.Equal("2026-01-15", string(r.Key))
			var ev usage.Event
			s.Require().NoError(json.Unmarshal(r.Value, &ev))
			got = append(got, ev)
		})
	}

	s.Equal("Primary", got[0].Label)
	s.Equal("Synthetic", got[1].Label)
	s.True(at.Equal(got[0].At))
}
