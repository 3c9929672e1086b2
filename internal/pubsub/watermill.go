package pubsub

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// WatermillBridge implements the Publisher and Subscriber interfaces using watermill's GoChannel.
type WatermillBridge struct {
	pub    message.Publisher
	sub    message.Subscriber
	tracer trace.Tracer
	logger watermill.LoggerAdapter
}

const (
	// Metadata keys used to transfer our Message structure fields through watermill's message.
	metaKeyUserID = "user_id"
	metaKeyTopic  = "topic"

	payloadPreviewLen = 100
)

// NewWatermillBridge initializes an in-memory Pub/Sub system without tracing.
func NewWatermillBridge() *WatermillBridge {
	return NewWatermillBridgeWithTracer(noop.NewTracerProvider().Tracer("fogwar-pubsub"))
}

// NewWatermillBridgeWithTracer initializes an in-memory Pub/Sub system whose
// publishes and deliveries are recorded as spans on tracer.
func NewWatermillBridgeWithTracer(tracer trace.Tracer) *WatermillBridge {
	logger := watermill.NewStdLogger(false, false)
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		logger,
	)

	return &WatermillBridge{
		pub:    goChannel,
		sub:    goChannel,
		tracer: tracer,
		logger: logger,
	}
}

// mapToWatermillMessage converts our pubsub.Message to a watermill message.
func mapToWatermillMessage(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)

	wmMsg.Metadata.Set(metaKeyUserID, msg.UserID)
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}

	return wmMsg
}

// mapToPubSubMessage converts a watermill message back to our internal pubsub.Message.
func mapToPubSubMessage(wmMsg *message.Message) Message {
	userID := wmMsg.Metadata.Get(metaKeyUserID)
	topic := wmMsg.Metadata.Get(metaKeyTopic)

	metadata := make(map[string]string)
	for k, v := range wmMsg.Metadata {
		if k != metaKeyUserID && k != metaKeyTopic {
			metadata[k] = v
		}
	}

	return Message{
		Topic:    topic,
		UserID:   userID,
		Payload:  wmMsg.Payload,
		Metadata: metadata,
	}
}

func spanAttributes(operation string, wmMsg *message.Message) []attribute.KeyValue {
	preview := string(wmMsg.Payload)
	if len(preview) > payloadPreviewLen {
		preview = preview[:payloadPreviewLen] + "..."
	}
	return []attribute.KeyValue{
		attribute.String("messaging.system", "watermill"),
		attribute.String("messaging.operation", operation),
		attribute.String("messaging.destination", wmMsg.Metadata.Get(metaKeyTopic)),
		attribute.String("messaging.message_id", wmMsg.UUID),
		attribute.String("user.id", wmMsg.Metadata.Get(metaKeyUserID)),
		attribute.Int("messaging.message_payload_size_bytes", len(wmMsg.Payload)),
		attribute.String("messaging.message_payload_preview", preview),
	}
}

// Publish implements the Publisher interface.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	wmMsg := mapToWatermillMessage(msg)

	spanCtx, span := wb.tracer.Start(ctx, fmt.Sprintf("pubsub.publish.%s", msg.Topic),
		trace.WithAttributes(spanAttributes("publish", wmMsg)...))
	defer span.End()
	wmMsg.SetContext(spanCtx)

	if err := wb.pub.Publish(msg.Topic, wmMsg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Subscribe implements the Subscriber interface. It returns once the
// subscription is active; messages are handled on a background goroutine.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			wb.deliver(ctx, topic, wmMsg, handler)
		}
		slog.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

func (wb *WatermillBridge) deliver(ctx context.Context, topic string, wmMsg *message.Message, handler Handler) {
	spanCtx, span := wb.tracer.Start(ctx, fmt.Sprintf("pubsub.process.%s", topic),
		trace.WithAttributes(spanAttributes("process", wmMsg)...))
	defer span.End()

	if err := handler(spanCtx, mapToPubSubMessage(wmMsg)); err != nil {
		slog.Error("Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	// gochannel redelivers nacked messages forever; failures are dropped.
	wmMsg.Ack()
}

// Close shuts down the bridge and ends every subscription loop.
func (wb *WatermillBridge) Close() error {
	return wb.sub.Close()
}
