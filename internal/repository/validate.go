package repository

import (
	"fmt"

	"gps-monitor/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateDataset checks every unit and alert against the model tags before
// they are written to a store.
func ValidateDataset(units []models.Unit, alerts []models.Alert) error {
	for _, unit := range units {
		if err := validate.Struct(unit); err != nil {
			return fmt.Errorf("invalid unit %s: %w", unit.ID, err)
		}
	}
	for _, alert := range alerts {
		if err := validate.Struct(alert); err != nil {
			return fmt.Errorf("invalid alert %s: %w", alert.ID, err)
		}
	}
	return nil
}
