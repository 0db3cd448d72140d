package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"fulfillment/cmd"
	fulfillmenthttp "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/dispatchrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/workerrepo"
	"fulfillment/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := openDatabase(configs)

	app, err := cmd.NewCompositionRoot(configs, gormDB)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	jobManager := jobs.NewJobManager(app.CreateRegenerateCredentialsCommandHandler(), app.Logger())
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:              goDotEnvVariable("HTTP_PORT"),
		DBHost:                goDotEnvVariable("DB_HOST"),
		DBPort:                goDotEnvVariable("DB_PORT"),
		DBUser:                goDotEnvVariable("DB_USER"),
		DBPassword:            goDotEnvVariable("DB_PASSWORD"),
		DBName:                goDotEnvVariable("DB_NAME"),
		DBSslMode:             goDotEnvVariable("DB_SSLMODE"),
		DispatchMaxActiveJobs: intEnvVariable("DISPATCH_MAX_ACTIVE_JOBS"),
		SMTPHost:              os.Getenv("SMTP_HOST"),
		SMTPPort:              intEnvVariable("SMTP_PORT"),
		SMTPUsername:          os.Getenv("SMTP_USERNAME"),
		SMTPPassword:          os.Getenv("SMTP_PASSWORD"),
		MailFrom:              os.Getenv("MAIL_FROM"),
		PaymentBaseURL:        os.Getenv("PAYMENT_BASE_URL"),
		PaymentAPIKey:         os.Getenv("PAYMENT_API_KEY"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func intEnvVariable(key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s value %q: %v", key, raw, err)
	}
	return value
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.SubOrderDTO{},
		&dispatchrepo.JobDTO{}, &workerrepo.WorkerDTO{},
		&postgres.SequenceDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := fulfillmenthttp.NewServer(
		app.CreatePlaceOrderCommandHandler(),
		app.CreateRequestStatusChangeCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateUpdateSpecialInstructionsCommandHandler(),
		app.CreateConfirmPaymentCommandHandler(),
		app.CreateAcceptJobCommandHandler(),
		app.CreateSetAvailabilityCommandHandler(),
		app.CreateIssueCredentialCommandHandler(),
		app.CreateRedeemCredentialCommandHandler(),
		app.CreateGetJobOffersQueryHandler(),
		app.CreateGetCustomerOrdersQueryHandler(),
		app.NotificationBus(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
