package shop

const (
	TopicOrderPlaced   = "shop.order.placed"
	TopicOrderRejected = "shop.order.rejected"
	TopicOrderStatus   = "shop.order.status"
)

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
