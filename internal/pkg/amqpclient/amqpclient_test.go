package amqpclient

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type recordingDeclarer struct {
	exchanges []string
	queues    map[string]amqp.Table
	bindings  []string
	failOn    string
}

func (d *recordingDeclarer) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	if name == d.failOn {
		return errors.New("boom")
	}
	d.exchanges = append(d.exchanges, name+":"+kind)
	return nil
}

func (d *recordingDeclarer) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if name == d.failOn {
		return amqp.Queue{}, errors.New("boom")
	}
	if d.queues == nil {
		d.queues = map[string]amqp.Table{}
	}
	d.queues[name] = args
	return amqp.Queue{Name: name}, nil
}

func (d *recordingDeclarer) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	d.bindings = append(d.bindings, exchange+"->"+name+"@"+key)
	return nil
}

func TestNewTopology_Defaults(t *testing.T) {
	top := NewTopology("", "crawler.product.crawled.v1", "")

	require.Equal(t, "events", top.Exchange)
	require.Equal(t, "crawler.product.crawled.v1", top.RoutingKey)
	require.Equal(t, "events.dlx", top.DLX)
	require.Equal(t, "crawler.product.crawled.v1.dlq", top.DLQ)
}

func TestTopology_Declare(t *testing.T) {
	d := &recordingDeclarer{}
	top := NewTopology("events", "results", "crawler.product.crawled.v1")

	require.NoError(t, top.Declare(d))
	require.Equal(t, []string{"events:topic", "events.dlx:topic"}, d.exchanges)
	require.Equal(t, amqp.Table{"x-dead-letter-exchange": "events.dlx"}, d.queues["results"])
	require.Contains(t, d.queues, "results.dlq")
	require.Equal(t, []string{
		"events->results@crawler.product.crawled.v1",
		"events.dlx->results.dlq@crawler.product.crawled.v1",
	}, d.bindings)
}

func TestTopology_DeclareError(t *testing.T) {
	d := &recordingDeclarer{failOn: "results.dlq"}

	err := NewTopology("events", "results", "").Declare(d)
	require.ErrorContains(t, err, `rabbitmq dlq declare "results.dlq"`)
}
