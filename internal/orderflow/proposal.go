package orderflow

import "storefront/internal/model"

// Transition is a status change submitted for an order.
type Transition struct {
	Status        model.OrderStatus   `json:"status" validate:"required,order_status"`
	PaymentStatus model.PaymentStatus `json:"payment_status,omitempty" validate:"omitempty,payment_status"`
}

// Proposal is the single legal next step for an order, as presented to the
// admin before confirming.
type Proposal struct {
	Current       model.OrderStatus
	Next          model.OrderStatus
	CanAdvance    bool
	PaymentStatus model.PaymentStatus
	// MarksPaid is set when confirming will also mark the payment as paid.
	MarksPaid bool
}

// Propose computes the next step for order. When the next stage is delivered
// the payment status is forced to paid; otherwise the order's own payment
// status is kept if it is paid or unpaid, else unpaid.
func Propose(order *model.Order) Proposal {
	current := Normalize(string(order.Status))
	next, ok := Next(current)

	payment := model.PaymentStatusUnpaid
	if ValidPayment(order.PaymentStatus) {
		payment = order.PaymentStatus
	}
	if ok && next == model.OrderStatusDelivered {
		payment = model.PaymentStatusPaid
	}

	return Proposal{
		Current:       current,
		Next:          next,
		CanAdvance:    ok,
		PaymentStatus: payment,
		MarksPaid:     current == model.OrderStatusOnTheWay,
	}
}

// Transition returns the transition to submit, or false for a terminal order.
func (p Proposal) Transition() (Transition, bool) {
	if !p.CanAdvance {
		return Transition{}, false
	}
	return Transition{Status: p.Next, PaymentStatus: p.PaymentStatus}, true
}

// Check validates t as the step after current: current must not be terminal,
// t.Status must be exactly the next stage, and delivering requires payment.
func Check(current model.OrderStatus, t Transition) error {
	next, ok := Next(current)
	if !ok {
		return model.ErrOrderTerminal
	}
	if t.Status != next {
		return model.ErrInvalidTransition
	}
	if t.Status == model.OrderStatusDelivered && t.PaymentStatus != model.PaymentStatusPaid {
		return model.ErrPaymentRequired
	}
	return nil
}
