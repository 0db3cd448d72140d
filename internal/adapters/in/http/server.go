// Package http exposes the fulfillment use cases over a JSON API. The caller
// identifies the acting customer, owner, or worker through the X-Actor-ID
// header; authentication sits in front of this service.
package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/dispatch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ActorIDHeader carries the authenticated actor's identifier.
const ActorIDHeader = "X-Actor-ID"

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	placeOrderHandler          commands.PlaceOrderCommandHandler
	requestStatusChangeHandler commands.RequestStatusChangeCommandHandler
	cancelOrderHandler         commands.CancelOrderCommandHandler
	updateInstructionsHandler  commands.UpdateSpecialInstructionsCommandHandler
	confirmPaymentHandler      commands.ConfirmPaymentCommandHandler
	acceptJobHandler           commands.AcceptJobCommandHandler
	setAvailabilityHandler     commands.SetAvailabilityCommandHandler
	issueCredentialHandler     commands.IssueCredentialCommandHandler
	redeemCredentialHandler    commands.RedeemCredentialCommandHandler

	// Query handlers
	getJobOffersHandler      queries.GetJobOffersQueryHandler
	getCustomerOrdersHandler queries.GetCustomerOrdersQueryHandler

	bus ports.NotificationBus
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	requestStatusChangeHandler commands.RequestStatusChangeCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	updateInstructionsHandler commands.UpdateSpecialInstructionsCommandHandler,
	confirmPaymentHandler commands.ConfirmPaymentCommandHandler,
	acceptJobHandler commands.AcceptJobCommandHandler,
	setAvailabilityHandler commands.SetAvailabilityCommandHandler,
	issueCredentialHandler commands.IssueCredentialCommandHandler,
	redeemCredentialHandler commands.RedeemCredentialCommandHandler,
	getJobOffersHandler queries.GetJobOffersQueryHandler,
	getCustomerOrdersHandler queries.GetCustomerOrdersQueryHandler,
	bus ports.NotificationBus,
) *Server {
	return &Server{
		placeOrderHandler:          placeOrderHandler,
		requestStatusChangeHandler: requestStatusChangeHandler,
		cancelOrderHandler:         cancelOrderHandler,
		updateInstructionsHandler:  updateInstructionsHandler,
		confirmPaymentHandler:      confirmPaymentHandler,
		acceptJobHandler:           acceptJobHandler,
		setAvailabilityHandler:     setAvailabilityHandler,
		issueCredentialHandler:     issueCredentialHandler,
		redeemCredentialHandler:    redeemCredentialHandler,
		getJobOffersHandler:        getJobOffersHandler,
		getCustomerOrdersHandler:   getCustomerOrdersHandler,
		bus:                        bus,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders", s.GetCustomerOrders)
	api.POST("/orders/:orderID/cancel", s.CancelOrder)
	api.PUT("/orders/:orderID/instructions", s.UpdateSpecialInstructions)
	api.POST("/orders/:orderID/payment/confirm", s.ConfirmPayment)

	api.POST("/sub-orders/:subOrderID/status", s.RequestStatusChange)
	api.POST("/sub-orders/:subOrderID/credential", s.IssueCredential)
	api.POST("/sub-orders/:subOrderID/redeem", s.RedeemCredential)

	api.GET("/jobs", s.GetJobOffers)
	api.POST("/jobs/:jobID/accept", s.AcceptJob)
	api.PUT("/workers/availability", s.SetAvailability)

	api.GET("/events", s.StreamEvents)
}

// ErrorResponse is the JSON error body returned by every endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PlaceOrderRequest is the customer's cart, pre-grouped per shop.
type PlaceOrderRequest struct {
	PaymentMethod       string              `json:"payment_method"`
	OrderType           string              `json:"order_type"`
	DeliveryAddress     string              `json:"delivery_address"`
	DeliveryLatitude    *float64            `json:"delivery_latitude"`
	DeliveryLongitude   *float64            `json:"delivery_longitude"`
	SpecialInstructions string              `json:"special_instructions"`
	SubOrders           []SubOrderRequest   `json:"sub_orders"`
}

// SubOrderRequest is one shop's portion of the cart.
type SubOrderRequest struct {
	ShopID  string             `json:"shop_id"`
	OwnerID string             `json:"owner_id"`
	Items   []OrderItemRequest `json:"items"`
}

// OrderItemRequest is one cart line.
type OrderItemRequest struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// PlaceOrderResponse returns the server-assigned order identifier.
type PlaceOrderResponse struct {
	OrderID string `json:"order_id"`
}

// PlaceOrder handles POST /api/v1/orders - submits a customer's cart.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	customerID, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var request PlaceOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	location := kernel.Location{}
	if request.DeliveryLatitude != nil && request.DeliveryLongitude != nil {
		location, err = kernel.NewLocation(*request.DeliveryLatitude, *request.DeliveryLongitude)
		if err != nil {
			return badRequest(ctx, "Invalid delivery location: "+err.Error())
		}
	}

	groups := make([]commands.SubOrderSpec, 0, len(request.SubOrders))
	for _, group := range request.SubOrders {
		shopID, err := kernel.UUIDFromString(group.ShopID)
		if err != nil {
			return badRequest(ctx, "Invalid shop ID: "+err.Error())
		}
		ownerID, err := kernel.UUIDFromString(group.OwnerID)
		if err != nil {
			return badRequest(ctx, "Invalid owner ID: "+err.Error())
		}

		items := make([]commands.OrderItemSpec, 0, len(group.Items))
		for _, item := range group.Items {
			items = append(items, commands.OrderItemSpec{
				Name:       item.Name,
				PriceCents: item.PriceCents,
				Quantity:   item.Quantity,
			})
		}
		groups = append(groups, commands.SubOrderSpec{
			ShopID:  shopID,
			OwnerID: ownerID,
			Items:   items,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewPlaceOrderCommand(
		orderID, customerID,
		order.PaymentMethod(request.PaymentMethod),
		order.OrderType(request.OrderType),
		request.DeliveryAddress, location,
		request.SpecialInstructions,
		groups,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr, "Failed to place order")
	}

	return ctx.JSON(http.StatusCreated, PlaceOrderResponse{OrderID: orderID.String()})
}

// CustomerSubOrder is the customer's view of one shop's slice of an order.
type CustomerSubOrder struct {
	SubOrderID       string  `json:"sub_order_id"`
	ShopID           string  `json:"shop_id"`
	Status           string  `json:"status"`
	SubtotalCents    int64   `json:"subtotal_cents"`
	ReceiptNumber    string  `json:"receipt_number,omitempty"`
	ConfirmationCode string  `json:"confirmation_code,omitempty"`
	CodeExpiresAt    *string `json:"code_expires_at,omitempty"`
	DeliveredAt      *string `json:"delivered_at,omitempty"`
}

// CustomerOrder is one order in the customer's history.
type CustomerOrder struct {
	OrderID     string             `json:"order_id"`
	OrderNumber *int64             `json:"order_number"`
	OrderType   string             `json:"order_type"`
	TotalCents  int64              `json:"total_cents"`
	IsCancelled bool               `json:"is_cancelled"`
	SubOrders   []CustomerSubOrder `json:"sub_orders"`
}

// GetCustomerOrders handles GET /api/v1/orders - the caller's order history.
func (s *Server) GetCustomerOrders(ctx echo.Context) error {
	customerID, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetCustomerOrdersQuery(customerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer ID: "+err.Error())
	}

	orders, err := s.getCustomerOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]CustomerOrder, len(orders))
	for i, o := range orders {
		subOrders := make([]CustomerSubOrder, len(o.SubOrders))
		for j, so := range o.SubOrders {
			subOrders[j] = CustomerSubOrder{
				SubOrderID:       so.SubOrderID.String(),
				ShopID:           so.ShopID.String(),
				Status:           so.Status,
				SubtotalCents:    so.SubtotalCents,
				ReceiptNumber:    so.ReceiptNumber,
				ConfirmationCode: so.ConfirmationCode,
				CodeExpiresAt:    timeString(so.CodeExpiresAt),
				DeliveredAt:      timeString(so.DeliveredAt),
			}
		}
		response[i] = CustomerOrder{
			OrderID:     o.OrderID.String(),
			OrderNumber: o.OrderNumber,
			OrderType:   o.OrderType,
			TotalCents:  o.TotalCents,
			IsCancelled: o.IsCancelled,
			SubOrders:   subOrders,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CancelOrderRequest carries the optional cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder handles POST /api/v1/orders/:orderID/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	var request CancelOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(actor, orderID, request.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid cancellation data: "+err.Error())
	}

	if handleErr := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr, "Failed to cancel order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateInstructionsRequest carries the replacement instruction text.
type UpdateInstructionsRequest struct {
	SpecialInstructions string `json:"special_instructions"`
}

// UpdateSpecialInstructions handles PUT /api/v1/orders/:orderID/instructions -
// the customer amending delivery instructions while the order is still
// being prepared.
func (s *Server) UpdateSpecialInstructions(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	var request UpdateInstructionsRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewUpdateSpecialInstructionsCommand(actor, orderID, request.SpecialInstructions)
	if err != nil {
		return badRequest(ctx, "Invalid instructions data: "+err.Error())
	}

	if handleErr := s.updateInstructionsHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr, "Failed to update instructions")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmPaymentRequest carries the gateway reference returned on capture.
type ConfirmPaymentRequest struct {
	PaymentReference string `json:"payment_reference"`
}

// ConfirmPayment handles POST /api/v1/orders/:orderID/payment/confirm -
// the customer reporting a captured online payment.
func (s *Server) ConfirmPayment(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	var request ConfirmPaymentRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewConfirmPaymentCommand(actor, orderID, request.PaymentReference)
	if err != nil {
		return badRequest(ctx, "Invalid payment data: "+err.Error())
	}

	if handleErr := s.confirmPaymentHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr, "Failed to confirm payment")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StatusChangeRequest names the target lifecycle status.
type StatusChangeRequest struct {
	Status string `json:"status"`
}

// RequestStatusChange handles POST /api/v1/sub-orders/:subOrderID/status -
// a shop owner moving their sub-order through the lifecycle.
func (s *Server) RequestStatusChange(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	subOrderID, err := kernel.UUIDFromString(ctx.Param("subOrderID"))
	if err != nil {
		return badRequest(ctx, "Invalid sub-order ID: "+err.Error())
	}

	var request StatusChangeRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.StatusFromString(request.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+err.Error())
	}

	cmd, err := commands.NewRequestStatusChangeCommand(actor, subOrderID, target)
	if err != nil {
		return badRequest(ctx, "Invalid status change data: "+err.Error())
	}

	if handleErr := s.requestStatusChangeHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr, "Failed to change status")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// IssueCredential handles POST /api/v1/sub-orders/:subOrderID/credential -
// generates a fresh confirmation code for an out-for-delivery sub-order.
func (s *Server) IssueCredential(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	subOrderID, err := kernel.UUIDFromString(ctx.Param("subOrderID"))
	if err != nil {
		return badRequest(ctx, "Invalid sub-order ID: "+err.Error())
	}

	cmd, err := commands.NewIssueCredentialCommand(actor, subOrderID)
	if err != nil {
		return badRequest(ctx, "Invalid credential request: "+err.Error())
	}

	if handleErr := s.issueCredentialHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr, "Failed to issue confirmation code")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RedeemCredentialRequest carries the code the worker read back from the
// customer at the door.
type RedeemCredentialRequest struct {
	Code string `json:"code"`
}

// RedeemCredential handles POST /api/v1/sub-orders/:subOrderID/redeem -
// confirms a delivery with the customer's code.
func (s *Server) RedeemCredential(ctx echo.Context) error {
	subOrderID, err := kernel.UUIDFromString(ctx.Param("subOrderID"))
	if err != nil {
		return badRequest(ctx, "Invalid sub-order ID: "+err.Error())
	}

	var request RedeemCredentialRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRedeemCredentialCommand(subOrderID, request.Code)
	if err != nil {
		return badRequest(ctx, "Invalid redemption data: "+err.Error())
	}

	if handleErr := s.redeemCredentialHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr, "Failed to confirm delivery")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// JobOfferItem is one line of the offered sub-order.
type JobOfferItem struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// JobOffer is one open delivery job as shown to a worker.
type JobOffer struct {
	JobID         string         `json:"job_id"`
	SubOrderID    string         `json:"sub_order_id"`
	ShopID        string         `json:"shop_id"`
	Items         []JobOfferItem `json:"items"`
	SubtotalCents int64          `json:"subtotal_cents"`
	ReceiptNumber string         `json:"receipt_number,omitempty"`
}

// GetJobOffers handles GET /api/v1/jobs - the worker's open offer feed.
func (s *Server) GetJobOffers(ctx echo.Context) error {
	workerID, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetJobOffersQuery(workerID)
	if err != nil {
		return badRequest(ctx, "Invalid worker ID: "+err.Error())
	}

	offers, err := s.getJobOffersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve job offers",
		})
	}

	response := make([]JobOffer, len(offers))
	for i, offer := range offers {
		items := make([]JobOfferItem, len(offer.Items))
		for j, item := range offer.Items {
			items[j] = JobOfferItem{
				Name:       item.Name,
				PriceCents: item.PriceCents,
				Quantity:   item.Quantity,
			}
		}
		response[i] = JobOffer{
			JobID:         offer.JobID.String(),
			SubOrderID:    offer.SubOrderID.String(),
			ShopID:        offer.ShopID.String(),
			Items:         items,
			SubtotalCents: offer.SubtotalCents,
			ReceiptNumber: offer.ReceiptNumber,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// AcceptJob handles POST /api/v1/jobs/:jobID/accept - a worker claiming an
// offered job. First claim wins; losers get a conflict.
func (s *Server) AcceptJob(ctx echo.Context) error {
	workerID, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	jobID, err := kernel.UUIDFromString(ctx.Param("jobID"))
	if err != nil {
		return badRequest(ctx, "Invalid job ID: "+err.Error())
	}

	cmd, err := commands.NewAcceptJobCommand(workerID, jobID)
	if err != nil {
		return badRequest(ctx, "Invalid claim data: "+err.Error())
	}

	if handleErr := s.acceptJobHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr, "Failed to accept job")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AvailabilityRequest toggles the worker's duty status.
type AvailabilityRequest struct {
	Available bool `json:"available"`
}

// SetAvailability handles PUT /api/v1/workers/availability - a worker going
// on or off duty. Coming on duty re-offers jobs the worker has not seen.
func (s *Server) SetAvailability(ctx echo.Context) error {
	workerID, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var request AvailabilityRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetAvailabilityCommand(workerID, request.Available)
	if err != nil {
		return badRequest(ctx, "Invalid availability data: "+err.Error())
	}

	if handleErr := s.setAvailabilityHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr, "Failed to update availability")
	}

	return ctx.NoContent(http.StatusNoContent)
}

func actorID(ctx echo.Context) (kernel.UUID, error) {
	header := ctx.Request().Header.Get(ActorIDHeader)
	if header == "" {
		return kernel.UUID{}, errors.New("missing " + ActorIDHeader + " header")
	}

	id, err := kernel.UUIDFromString(header)
	if err != nil {
		return kernel.UUID{}, errors.New("invalid " + ActorIDHeader + " header")
	}

	return id, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// commandError maps domain failures onto HTTP statuses: missing aggregates
// become 404, ownership violations 403, lost races and rule violations 409,
// everything else 500.
func commandError(ctx echo.Context, err error, message string) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, commands.ErrNoOrderFound),
		errors.Is(err, commands.ErrNoJobFound),
		errors.Is(err, commands.ErrNoWorkerFound):
		status = http.StatusNotFound
	case errors.Is(err, commands.ErrActorNotAllowed):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, dispatch.ErrJobAlreadyResolved),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrOrderAlreadyCancelled),
		errors.Is(err, order.ErrInvalidOrExpiredCredential),
		errors.Is(err, commands.ErrPaymentNotExpected),
		errors.Is(err, services.ErrWorkerAtCapacity):
		status = http.StatusConflict
	}

	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: message + ": " + err.Error(),
	})
}

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
