package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"expensetracker/internal/logger"
)

const publishTimeout = 5 * time.Second

// publisher is the part of *amqp091.Channel used for sending.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPNotifier publishes reset messages to a RabbitMQ direct exchange so a
// separate mail worker can deliver them.
type AMQPNotifier struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	publisher    publisher
	exchangeName string
	queueName    string
}

// NewAMQPNotifier dials the broker and declares the exchange and queue.
func NewAMQPNotifier(url, exchangeName, queueName string) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	n := &AMQPNotifier{
		conn:         conn,
		channel:      channel,
		publisher:    channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := n.setup(); err != nil {
		n.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return n, nil
}

func (n *AMQPNotifier) setup() error {
	err := n.channel.ExchangeDeclare(
		n.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = n.channel.QueueDeclare(
		n.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key is the queue name.
	if err := n.channel.QueueBind(n.queueName, n.queueName, n.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// SendPasswordReset publishes the message as persistent JSON.
func (n *AMQPNotifier) SendPasswordReset(ctx context.Context, msg *PasswordReset) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = n.publisher.PublishWithContext(
		ctx,
		n.exchangeName, // exchange
		n.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			Type:         msg.Type,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	logger.Get().Infow("Published password reset message",
		"user_id", msg.UserID,
		"exchange", n.exchangeName,
		"queue", n.queueName,
	)
	return nil
}

// Close releases the channel and connection.
func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
