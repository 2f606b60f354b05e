package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/repository"
	"github.com/Govind-619/ShopSphere/utils"
)

// DeliveryResolver looks up the flat delivery charge for a city/state pair
type DeliveryResolver struct {
	repo          repository.DeliveryChargeRepository
	defaultCharge float64
}

func NewDeliveryResolver(repo repository.DeliveryChargeRepository, defaultCharge float64) *DeliveryResolver {
	return &DeliveryResolver{repo: repo, defaultCharge: defaultCharge}
}

// Resolve returns the configured charge, or the default when no active entry exists
func (r *DeliveryResolver) Resolve(ctx context.Context, city, state string) (float64, error) {
	city = strings.ToLower(strings.TrimSpace(city))
	state = strings.ToLower(strings.TrimSpace(state))

	dc, err := r.repo.Find(ctx, city, state)
	if err != nil {
		if errors.Is(err, repository.ErrDeliveryChargeNotFound) {
			utils.LogDebug("No delivery charge for %s/%s, using default %.2f", city, state, r.defaultCharge)
			return r.defaultCharge, nil
		}
		return 0, utils.InternalError("Failed to resolve delivery charge", err)
	}
	return dc.Charge, nil
}

// List returns the whole charge table
func (r *DeliveryResolver) List(ctx context.Context) ([]models.DeliveryCharge, error) {
	charges, err := r.repo.List(ctx)
	if err != nil {
		return nil, utils.InternalError("Failed to load delivery charges", err)
	}
	return charges, nil
}

// Upsert validates and stores one entry of the table
func (r *DeliveryResolver) Upsert(ctx context.Context, dc *models.DeliveryCharge) error {
	dc.Normalize()
	if dc.City == "" || dc.State == "" {
		return utils.InvalidInputError("City and state are required", nil)
	}
	if !utils.IsFiniteNonNegative(dc.Charge) {
		return utils.InvalidInputError("Delivery charge must be a non-negative amount", nil)
	}
	if err := r.repo.Upsert(ctx, dc); err != nil {
		return utils.InternalError("Failed to save delivery charge", err)
	}
	utils.LogInfo("Delivery charge for %s/%s set to %.2f", dc.City, dc.State, dc.Charge)
	return nil
}

// Default is the charge used when the table has no entry
func (r *DeliveryResolver) Default() float64 {
	return r.defaultCharge
}
