package dto

const (
	EventOrderCreated   = "order_created"
	EventOrderPaid      = "order_paid"
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"
)

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

type ProductDeletedEvent struct {
	ID string `json:"id"`
}
