package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// PlaceOrderCommandHandler persists a new order and announces each sub-order
// to the owner of the shop it belongs to. For online payments a gateway
// reference is obtained before the order is stored, so the provider's
// callbacks can be correlated later.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
	bus        ports.NotificationBus
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	bus ports.NotificationBus,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		bus:        bus,
	}
}

// Handle builds the order aggregate from the per-shop cart groups, freezing
// item prices and monetary shares, persists it, and publishes a new-order
// event to every shop owner involved. Notifications go out only after the
// transaction commits.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, command PlaceOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	aggregate, err := h.buildOrder(command)
	if err != nil {
		return err
	}

	if command.PaymentMethod() == order.PaymentOnline {
		reference, gErr := h.gateway.CreatePayment(ctx, aggregate.ID(), aggregate.TotalAmount())
		if gErr != nil {
			return gErr
		}
		if err = aggregate.AttachPaymentReference(reference); err != nil {
			return err
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, so := range aggregate.SubOrders() {
		h.bus.PublishTo(so.OwnerID(), ports.Event{
			Kind: ports.EventNewOrder,
			Payload: NewOrderNotification{
				OrderID:       aggregate.ID().String(),
				SubOrderID:    so.ID().String(),
				ShopID:        so.ShopID().String(),
				SubtotalCents: so.Subtotal().Cents(),
			},
		})
	}

	return nil
}

func (h PlaceOrderCommandHandler) buildOrder(command PlaceOrderCommand) (*order.Order, error) {
	total, err := kernel.NewMoney(0)
	if err != nil {
		return nil, err
	}

	subOrders := make([]*order.SubOrder, 0, len(command.SubOrders()))
	for _, spec := range command.SubOrders() {
		items := make([]order.LineItem, 0, len(spec.Items))
		for _, itemSpec := range spec.Items {
			price, pErr := kernel.NewMoney(itemSpec.PriceCents)
			if pErr != nil {
				return nil, pErr
			}
			item, iErr := order.NewLineItem(itemSpec.Name, price, itemSpec.Quantity)
			if iErr != nil {
				return nil, iErr
			}
			items = append(items, item)
		}

		subOrder, soErr := order.NewSubOrder(kernel.NewUUID(), spec.ShopID, spec.OwnerID, items)
		if soErr != nil {
			return nil, soErr
		}
		subOrders = append(subOrders, subOrder)
		total = total.Add(subOrder.Subtotal())
	}

	return order.NewOrder(
		command.OrderID(),
		command.CustomerID(),
		command.PaymentMethod(),
		command.OrderType(),
		command.DeliveryAddress(),
		command.DeliveryLocation(),
		total,
		command.SpecialInstructions(),
		subOrders,
	)
}
