package logging

import "go.uber.org/zap"

// New builds the application logger: human-readable in development,
// JSON in production.
func New(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
