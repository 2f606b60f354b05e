package config

import (
	"fmt"
	"os"

	"github.com/Govind-619/ShopSphere/models"
	"gopkg.in/yaml.v3"
)

type deliveryChargeFile struct {
	Default *float64             `yaml:"default"`
	Charges []deliveryChargeSeed `yaml:"charges"`
}

type deliveryChargeSeed struct {
	City     string  `yaml:"city"`
	State    string  `yaml:"state"`
	Charge   float64 `yaml:"charge"`
	IsActive *bool   `yaml:"is_active"`
}

// DeliverySeed is the parsed delivery charge table
type DeliverySeed struct {
	Default *float64
	Charges []models.DeliveryCharge
}

// LoadDeliveryCharges reads the delivery charge table from a YAML file:
//
//	default: 50
//	charges:
//	  - {city: Mumbai, state: Maharashtra, charge: 40}
func LoadDeliveryCharges(path string) (*DeliverySeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read delivery charges file: %v", err)
	}
	return ParseDeliveryCharges(raw)
}

// ParseDeliveryCharges parses the YAML delivery charge table
func ParseDeliveryCharges(raw []byte) (*DeliverySeed, error) {
	var file deliveryChargeFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse delivery charges: %v", err)
	}

	seed := &DeliverySeed{Default: file.Default}
	for i, c := range file.Charges {
		if c.City == "" || c.State == "" {
			return nil, fmt.Errorf("delivery charge %d: city and state are required", i)
		}
		if c.Charge < 0 {
			return nil, fmt.Errorf("delivery charge %d: charge must not be negative", i)
		}
		active := true
		if c.IsActive != nil {
			active = *c.IsActive
		}
		dc := models.DeliveryCharge{City: c.City, State: c.State, Charge: c.Charge, IsActive: active}
		dc.Normalize()
		seed.Charges = append(seed.Charges, dc)
	}
	return seed, nil
}
