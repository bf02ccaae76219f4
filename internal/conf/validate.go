// conf/validate.go

package conf

import (
	"fmt"
	"net"
	"strconv"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	// Validate WebServer settings
	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	// Validate Output settings
	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	// Validate Telemetry settings
	if err := validateTelemetrySettings(&settings.Telemetry); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	// Validate Sentry settings
	if err := validateSentrySettings(&settings.Sentry); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	// Validate Mosaic settings
	if err := validateMosaicSettings(&settings.Mosaic); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	// If there are any errors, return the ValidationError
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateWebServerSettings validates the web server specific settings
func validateWebServerSettings(settings *WebServerSettings) error {
	if !settings.Enabled {
		return nil
	}

	port, err := strconv.Atoi(settings.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid WebServer port: %s", settings.Port)
	}

	return nil
}

// validateOutputSettings validates the database output settings
func validateOutputSettings(settings *OutputSettings) error {
	if !settings.SQLite.Enabled && !settings.MySQL.Enabled {
		return fmt.Errorf("no database output enabled, enable either SQLite or MySQL")
	}

	if settings.SQLite.Enabled && settings.MySQL.Enabled {
		return fmt.Errorf("both SQLite and MySQL outputs enabled, enable only one")
	}

	if settings.SQLite.Enabled && settings.SQLite.Path == "" {
		return fmt.Errorf("SQLite output enabled but no database path set")
	}

	if settings.MySQL.Enabled {
		if settings.MySQL.Database == "" {
			return fmt.Errorf("MySQL output enabled but no database name set")
		}
		if port, err := strconv.Atoi(settings.MySQL.Port); err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid MySQL port: %s", settings.MySQL.Port)
		}
	}

	return nil
}

// validateTelemetrySettings validates the telemetry specific settings
func validateTelemetrySettings(settings *TelemetrySettings) error {
	if !settings.Enabled {
		return nil
	}

	if _, _, err := net.SplitHostPort(settings.Listen); err != nil {
		return fmt.Errorf("invalid telemetry listen address: %s", settings.Listen)
	}

	return nil
}

// validateSentrySettings validates the Sentry specific settings
func validateSentrySettings(settings *SentrySettings) error {
	if settings.Enabled && settings.DSN == "" {
		return fmt.Errorf("Sentry reporting enabled but no DSN set")
	}

	return nil
}

// validateMosaicSettings validates the mosaic resolution settings
func validateMosaicSettings(settings *MosaicSettings) error {
	if settings.LookupCacheTTL < 0 {
		return fmt.Errorf("lookup cache TTL must not be negative: %d", settings.LookupCacheTTL)
	}

	return nil
}
