package cmd

import (
	"log/slog"
	"os"

	"fulfillment/internal/adapters/out/mail"
	"fulfillment/internal/adapters/out/notify"
	"fulfillment/internal/adapters/out/payment"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. Handlers are cheap
// value types created on demand; the shared pieces (DB, notification bus,
// outbound integrations) live here.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	policy     services.DispatchPolicy
	bus        ports.NotificationBus
	sender     ports.CredentialSender
	gateway    ports.PaymentGateway
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB) (CompositionRoot, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	policy, err := services.NewDispatchPolicy(configs.DispatchMaxActiveJobs)
	if err != nil {
		return CompositionRoot{}, err
	}

	sender := mail.NewCredentialSender(mail.Config{
		Host:     configs.SMTPHost,
		Port:     configs.SMTPPort,
		Username: configs.SMTPUsername,
		Password: configs.SMTPPassword,
		From:     configs.MailFrom,
	}, nil, logger)

	gateway := payment.NewHTTPGateway(payment.Config{
		BaseURL: configs.PaymentBaseURL,
		APIKey:  configs.PaymentAPIKey,
	})

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		policy:     policy,
		bus:        notify.NewConnectionRegistry(logger),
		sender:     sender,
		gateway:    gateway,
		logger:     logger,
	}, nil
}

// Logger returns the shared structured logger.
func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

// NotificationBus returns the shared in-process notification bus.
func (c *CompositionRoot) NotificationBus() ports.NotificationBus {
	return c.bus
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.gateway, c.bus)
}

func (c *CompositionRoot) CreateRequestStatusChangeCommandHandler() commands.RequestStatusChangeCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestStatusChangeCommandHandler(f, c.policy, c.bus, c.sender)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.bus)
}

func (c *CompositionRoot) CreateUpdateSpecialInstructionsCommandHandler() commands.UpdateSpecialInstructionsCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateSpecialInstructionsCommandHandler(f)
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmPaymentCommandHandler(f)
}

func (c *CompositionRoot) CreateAcceptJobCommandHandler() commands.AcceptJobCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptJobCommandHandler(f, c.policy, c.bus)
}

func (c *CompositionRoot) CreateSetAvailabilityCommandHandler() commands.SetAvailabilityCommandHandler {
	var f commands.WorkerDispatchUoWFactory = FuncWorkerDispatchUoWFactory(func() commands.WorkerDispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetAvailabilityCommandHandler(f, c.bus)
}

func (c *CompositionRoot) CreateIssueCredentialCommandHandler() commands.IssueCredentialCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewIssueCredentialCommandHandler(f, c.bus, c.sender)
}

func (c *CompositionRoot) CreateRedeemCredentialCommandHandler() commands.RedeemCredentialCommandHandler {
	var f commands.OrderDispatchUoWFactory = FuncOrderDispatchUoWFactory(func() commands.OrderDispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRedeemCredentialCommandHandler(f, c.bus)
}

func (c *CompositionRoot) CreateRegenerateCredentialsCommandHandler() commands.RegenerateCredentialsCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegenerateCredentialsCommandHandler(f, c.bus, c.sender)
}

func (c *CompositionRoot) CreateGetJobOffersQueryHandler() queries.GetJobOffersQueryHandler {
	return queries.NewGetJobOffersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOrderDispatchUoWFactory func() commands.OrderDispatchUoW

func (f FuncOrderDispatchUoWFactory) Create() commands.OrderDispatchUoW {
	return f()
}

type FuncWorkerDispatchUoWFactory func() commands.WorkerDispatchUoW

func (f FuncWorkerDispatchUoWFactory) Create() commands.WorkerDispatchUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
