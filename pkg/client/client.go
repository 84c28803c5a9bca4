package client

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	pulsarlog "github.com/apache/pulsar-client-go/pulsar/log"
	"github.com/sirupsen/logrus"

	"github.com/timada-org/todos/pkg/topic"
)

const (
	EventCreated = "Created"
	EventUpdated = "Updated"
	EventDeleted = "Deleted"
)

type Event struct {
	UserID string           `json:"user_id"`
	Topic  *topic.TopicName `json:"topic"`
	Name   string           `json:"name"`
	Data   any              `json:"data"`
}

type ClientOptions struct {
	URL    string
	Topic  string
	Name   string
	Logger *logrus.Logger
}

// Client publishes todo change events to a Pulsar topic.
type Client struct {
	Client   pulsar.Client
	producer pulsar.Producer
}

func New(options ClientOptions) (*Client, error) {
	clientOptions := pulsar.ClientOptions{
		URL:               options.URL,
		ConnectionTimeout: 10 * time.Second,
	}

	if options.Logger != nil {
		clientOptions.Logger = pulsarlog.NewLoggerWithLogrus(options.Logger)
	}

	client, err := pulsar.NewClient(clientOptions)
	if err != nil {
		return nil, err
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: options.Topic,
		Name:  options.Name,
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	return &Client{
		Client:   client,
		producer: producer,
	}, nil
}

func (c *Client) Send(ctx context.Context, event *Event) error {
	if c.producer == nil {
		return errors.New("producer not initialized")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = c.producer.Send(ctx, &pulsar.ProducerMessage{
		Payload: payload,
		Key:     event.UserID,
	})

	return err
}

func (c *Client) Close() {
	if c.producer != nil {
		c.producer.Close()
	}

	c.Client.Close()
}
