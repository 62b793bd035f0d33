package kafka

import (
	"context"

	"github.com/IBM/sarama"

	"github.com/chris-alexander-pop/system-design-library/pkg/eventbus"
)

// producer is a topic-bound Kafka sync producer.
type producer struct {
	topic    string
	producer sarama.SyncProducer
}

func (p *producer) Publish(ctx context.Context, msg *eventbus.Message) error {
	kafkaMsg := toProducerMessage(p.topic, msg)

	partition, offset, err := p.producer.SendMessage(kafkaMsg)
	if err != nil {
		return eventbus.ErrPublishFailed(err)
	}

	msg.Metadata.Partition = partition
	msg.Metadata.Offset = offset
	return nil
}

func (p *producer) PublishBatch(ctx context.Context, msgs []*eventbus.Message) error {
	kafkaMsgs := make([]*sarama.ProducerMessage, len(msgs))
	for i, msg := range msgs {
		kafkaMsgs[i] = toProducerMessage(p.topic, msg)
	}

	if err := p.producer.SendMessages(kafkaMsgs); err != nil {
		return eventbus.ErrPublishFailed(err)
	}

	for i, msg := range msgs {
		msg.Metadata.Partition = kafkaMsgs[i].Partition
		msg.Metadata.Offset = kafkaMsgs[i].Offset
	}
	return nil
}

func (p *producer) Close() error {
	return p.producer.Close()
}

func toProducerMessage(topic string, msg *eventbus.Message) *sarama.ProducerMessage {
	kafkaMsg := &sarama.ProducerMessage{
		Topic:     topic,
		Value:     sarama.ByteEncoder(msg.Payload),
		Timestamp: msg.Timestamp,
	}
	if len(msg.Key) > 0 {
		kafkaMsg.Key = sarama.ByteEncoder(msg.Key)
	}
	for k, v := range msg.Headers {
		kafkaMsg.Headers = append(kafkaMsg.Headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}
	return kafkaMsg
}
