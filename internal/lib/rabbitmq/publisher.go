package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Channel часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// PublishMessage публикует message в exchange с ключом routingKey в виде JSON.
func PublishMessage(ch Channel, exchange string, routingKey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Publisher публикует события в один exchange.
type Publisher struct {
	ch       Channel
	conn     *amqp.Connection
	exchange string
}

// NewPublisher оборачивает уже настроенный канал.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Dial подключается к url, объявляет exchange и возвращает готовый Publisher.
func Dial(url, exchange string, retries int, delay time.Duration) (*Publisher, error) {
	conn, err := Connect(url, retries, delay)
	if err != nil {
		return nil, err
	}
	ch, err := SetupChannel(conn, exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{ch: ch, conn: conn, exchange: exchange}, nil
}

// Publish отправляет payload с ключом routingKey. Отменённый ctx прерывает отправку.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rabbitmq.Publish: %w", err)
	}
	return PublishMessage(p.ch, p.exchange, routingKey, payload)
}

// Close закрывает канал и соединение, если Publisher им владеет.
func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
