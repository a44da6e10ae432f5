// Package orderflow is the order status state machine: a fixed linear chain
// pending -> cooking -> on_the_way -> delivered with delivered terminal.
package orderflow

import (
	"strings"

	"storefront/internal/model"
)

// Flow is the fixed sequence every order walks through.
var Flow = []model.OrderStatus{
	model.OrderStatusPending,
	model.OrderStatusCooking,
	model.OrderStatusOnTheWay,
	model.OrderStatusDelivered,
}

// Descriptions are the human-readable captions of each stage.
var Descriptions = map[model.OrderStatus]string{
	model.OrderStatusPending:   "Order received and awaiting kitchen confirmation",
	model.OrderStatusCooking:   "Meal preparation is in progress",
	model.OrderStatusOnTheWay:  "Courier picked up the order",
	model.OrderStatusDelivered: "Order handed to the customer",
}

// Index returns the position of status in Flow, or -1.
func Index(status model.OrderStatus) int {
	for i, s := range Flow {
		if s == status {
			return i
		}
	}
	return -1
}

// Valid reports whether status is part of Flow.
func Valid(status model.OrderStatus) bool {
	return Index(status) >= 0
}

// Normalize maps a raw status onto Flow. Unrecognized values fall back to
// the first stage.
func Normalize(raw string) model.OrderStatus {
	status := model.OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if Valid(status) {
		return status
	}
	return Flow[0]
}

// Next returns the single permissible successor of status. It returns false
// when status is terminal.
func Next(status model.OrderStatus) (model.OrderStatus, bool) {
	i := Index(Normalize(string(status)))
	if i+1 >= len(Flow) {
		return "", false
	}
	return Flow[i+1], true
}

// Terminal reports whether no transition leaves status.
func Terminal(status model.OrderStatus) bool {
	_, ok := Next(status)
	return !ok
}

// Label renders a status for display ("on_the_way" -> "on the way").
func Label(status model.OrderStatus) string {
	return strings.ReplaceAll(string(status), "_", " ")
}

// ValidPayment reports whether payment is a status the dashboard may submit.
func ValidPayment(payment model.PaymentStatus) bool {
	return payment == model.PaymentStatusPaid || payment == model.PaymentStatusUnpaid
}
