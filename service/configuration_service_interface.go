package service

import (
	"context"

	"github.com/google/uuid"

	"carmod-configurator/models"
)

// ConfigurationServiceInterface defines the configuration aggregator.
// Writes are allowed only while a configuration is saved.
type ConfigurationServiceInterface interface {
	// CreateOrUpdateConfiguration creates a configuration when configurationID is nil,
	// otherwise overwrites the customer's saved configuration in place
	CreateOrUpdateConfiguration(ctx context.Context, configurationID *uuid.UUID, req *models.SaveConfigurationRequest) (*models.Configuration, error)
	SelectOption(ctx context.Context, customerID, configurationID, optionID uuid.UUID) (*models.Configuration, error)
	// ClearSlot removes the slot's selection; clearing an empty slot changes nothing
	ClearSlot(ctx context.Context, customerID, configurationID uuid.UUID, slot models.SlotKind) (*models.Configuration, error)
	GetConfiguration(ctx context.Context, id uuid.UUID) (*models.Configuration, error)
	ListConfigurations(ctx context.Context, customerID uuid.UUID, status *models.ConfigurationStatus) ([]models.Configuration, error)
	CancelConfiguration(ctx context.Context, customerID, id uuid.UUID) (*models.Configuration, error)
	DeleteConfiguration(ctx context.Context, customerID, id uuid.UUID) error
}
