package entity

const (
	OrderPending    = "Pending"
	OrderProcessing = "Processing"
	OrderShipped    = "Shipped"
	OrderCompleted  = "Completed"
	OrderReceived   = "Received"
	OrderDelivered  = "Delivered"
	OrderCancelled  = "Cancelled"
)

const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
)

// orderFlow is the forward-only lifecycle. Cancelled is reachable only from Pending.
var orderFlow = []string{
	OrderPending,
	OrderProcessing,
	OrderShipped,
	OrderCompleted,
	OrderReceived,
	OrderDelivered,
}

// NextOrderStatus returns the status following current. It reports false for
// terminal and unknown statuses.
func NextOrderStatus(current string) (string, bool) {
	for i, s := range orderFlow {
		if s == current && i+1 < len(orderFlow) {
			return orderFlow[i+1], true
		}
	}
	return "", false
}

func IsTerminalOrderStatus(s string) bool {
	return s == OrderDelivered || s == OrderCancelled
}

func IsValidOrderStatus(s string) bool {
	if s == OrderCancelled {
		return true
	}
	for _, f := range orderFlow {
		if f == s {
			return true
		}
	}
	return false
}

// PaymentStatusFor derives an order's payment status from its transaction status.
func PaymentStatusFor(transactionStatus string) string {
	switch transactionStatus {
	case TransactionSuccess:
		return PaymentPaid
	case TransactionFailed:
		return PaymentFailed
	default:
		return PaymentPending
	}
}
