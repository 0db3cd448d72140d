package cmd

// Config carries the environment-driven settings for the fulfillment service.
// Mail and payment settings are optional: leaving them empty disables the
// corresponding integration without disabling the service.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// DispatchMaxActiveJobs caps how many unfinished deliveries a worker may
	// hold at once. Zero means no cap.
	DispatchMaxActiveJobs int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	PaymentBaseURL string
	PaymentAPIKey  string
}
