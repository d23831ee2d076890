package redpanda

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// createTopicIfNotExists creates a topic; an already-exists response is
// not an error.
func createTopicIfNotExists(ctx context.Context, client *kgo.Client, topic string, partitions int32, replicationFactor int16) error {
	req := kmsg.NewCreateTopicsRequest()
	reqTopic := kmsg.NewCreateTopicsRequestTopic()
	reqTopic.Topic = topic
	reqTopic.NumPartitions = partitions
	reqTopic.ReplicationFactor = replicationFactor
	req.Topics = append(req.Topics, reqTopic)
	req.TimeoutMillis = 30000

	resp, err := req.RequestWith(ctx, client)
	if err != nil {
		return fmt.Errorf("create topics request: %w", err)
	}

	for _, t := range resp.Topics {
		if t.ErrorCode != 0 {
			// 36 = TOPIC_ALREADY_EXISTS
			if t.ErrorCode == 36 {
				return nil
			}
			msg := ""
			if t.ErrorMessage != nil {
				msg = *t.ErrorMessage
			}
			return fmt.Errorf("create topic %s: code=%d %s", t.Topic, t.ErrorCode, msg)
		}
	}
	return nil
}
