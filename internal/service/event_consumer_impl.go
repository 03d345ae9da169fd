package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/Aymix/whitecart/internal/dto"
	"github.com/Aymix/whitecart/internal/repository"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

var errPublisherClosed = errors.New("event publisher is closed")

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

var orderEmailTemplate = template.Must(template.New("order").Parse(`<h2>{{.Heading}}</h2>
<p>Hi {{.Name}},</p>
<p>{{.Intro}}</p>
<table>
{{range .Order.Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}} x {{printf "%.2f" .Price}}</td></tr>
{{end}}</table>
<p>Total: {{printf "%.2f" .Order.TotalAmount}}</p>
<p>Shipping to: {{.Order.ShippingAddress}}</p>`))

type orderEmail struct {
	Heading string
	Intro   string
	Name    string
	Order   dto.OrderResponse
}

// EventConsumerImpl keeps the search index in sync with catalog events and
// emails customers about their orders.
type EventConsumerImpl struct {
	reader      MessageReader
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	search      repository.ProductSearchRepository
	mailer      Mailer
}

func CreateEventConsumer(reader MessageReader, productRepo repository.ProductRepository, userRepo repository.UserRepository, search repository.ProductSearchRepository, mailer Mailer) EventConsumer {
	return &EventConsumerImpl{
		reader:      reader,
		productRepo: productRepo,
		userRepo:    userRepo,
		search:      search,
		mailer:      mailer,
	}
}

func (s *EventConsumerImpl) ConsumeEvent(ctx context.Context) {
	if s.reader == nil {
		return
	}

	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
			time.Sleep(time.Second)
			continue
		}

		var receivedMsg dto.KafkaMessage
		if err := json.Unmarshal(msg.Value, &receivedMsg); err != nil {
			log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
			continue
		}

		if err := s.HandleEvent(ctx, receivedMsg); err != nil {
			log.Error().Err(err).Str("component", "ConsumeEvent").Str("event_type", receivedMsg.EventType).Msg("")
		}
	}
}

func (s *EventConsumerImpl) HandleEvent(ctx context.Context, msg dto.KafkaMessage) (err error) {
	switch msg.EventType {
	case dto.EventOrderCreated:
		var order dto.OrderResponse
		if err = decodeEventData(msg.Data, &order); err != nil {
			return
		}
		return errors.Join(
			s.reindexOrderedProducts(ctx, order),
			s.sendOrderEmail(ctx, order, "Order confirmation", "Thanks for your order. We have reserved the following items for you."),
		)
	case dto.EventOrderPaid:
		var order dto.OrderResponse
		if err = decodeEventData(msg.Data, &order); err != nil {
			return
		}
		return s.sendOrderEmail(ctx, order, "Payment received", "We have received your payment for the order below.")
	case dto.EventProductCreated, dto.EventProductUpdated:
		var product dto.ProductResponse
		if err = decodeEventData(msg.Data, &product); err != nil {
			return
		}
		return s.search.IndexProduct(ctx, product)
	case dto.EventProductDeleted:
		var deleted dto.ProductDeletedEvent
		if err = decodeEventData(msg.Data, &deleted); err != nil {
			return
		}
		err = s.search.DeleteProduct(ctx, deleted.ID)
		if errors.Is(err, errs.ErrNotFound) {
			return nil
		}
		return
	default:
		log.Ctx(ctx).Warn().Str("component", "HandleEvent").Str("event_type", msg.EventType).Msg("unknown event type")
	}

	return nil
}

// reindexOrderedProducts refreshes the search documents of ordered products with their current stock.
func (s *EventConsumerImpl) reindexOrderedProducts(ctx context.Context, order dto.OrderResponse) error {
	var errList []error
	for _, item := range order.Items {
		product, err := s.productRepo.GetProductByID(ctx, item.Product)
		if err != nil {
			if !errors.Is(err, errs.ErrNotFound) {
				errList = append(errList, err)
			}
			continue
		}

		var sellerName string
		if seller, err := s.userRepo.GetUserByID(ctx, product.Seller.Hex()); err == nil {
			sellerName = seller.Name
		}

		if err := s.search.IndexProduct(ctx, toProductResponse(product, sellerName)); err != nil {
			errList = append(errList, err)
		}
	}

	return errors.Join(errList...)
}

func (s *EventConsumerImpl) sendOrderEmail(ctx context.Context, order dto.OrderResponse, subject string, intro string) error {
	if s.mailer == nil {
		return nil
	}

	user, err := s.userRepo.GetUserByID(ctx, order.User)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	err = orderEmailTemplate.Execute(&body, orderEmail{
		Heading: subject,
		Intro:   intro,
		Name:    user.Name,
		Order:   order,
	})
	if err != nil {
		return err
	}

	return s.mailer.Send(user.Email, fmt.Sprintf("%s #%s", subject, order.ID), body.String())
}

func decodeEventData(data interface{}, dest interface{}) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(dataBytes, dest)
}

const inProcessQueueSize = 256

type queuedEvent struct {
	ctx context.Context
	msg dto.KafkaMessage
}

// InProcessPublisher hands events to a consumer on a single worker goroutine, in
// publish order. It stands in for the broker when no Kafka address is configured.
type InProcessPublisher struct {
	consumer  EventConsumer
	events    chan queuedEvent
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func CreateInProcessPublisher(consumer EventConsumer) *InProcessPublisher {
	p := &InProcessPublisher{
		consumer: consumer,
		events:   make(chan queuedEvent, inProcessQueueSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish queues the event and returns before it is handled. It blocks only while the queue is full.
func (p *InProcessPublisher) Publish(ctx context.Context, key string, msg dto.KafkaMessage) error {
	select {
	case <-p.stop:
		return errPublisherClosed
	default:
	}

	select {
	case p.events <- queuedEvent{ctx: context.WithoutCancel(ctx), msg: msg}:
		return nil
	case <-p.stop:
		return errPublisherClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events and waits until the queued ones are handled.
func (p *InProcessPublisher) Close() {
	p.closeOnce.Do(func() { close(p.stop) })
	<-p.done
}

func (p *InProcessPublisher) run() {
	defer close(p.done)
	for {
		select {
		case evt := <-p.events:
			p.handle(evt)
		case <-p.stop:
			for {
				select {
				case evt := <-p.events:
					p.handle(evt)
				default:
					return
				}
			}
		}
	}
}

func (p *InProcessPublisher) handle(evt queuedEvent) {
	if err := p.consumer.HandleEvent(evt.ctx, evt.msg); err != nil {
		log.Ctx(evt.ctx).Error().Err(err).Str("component", "InProcessPublisher").Str("event_type", evt.msg.EventType).Msg("")
	}
}
