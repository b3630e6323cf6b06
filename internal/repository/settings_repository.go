package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ddreams3d/quoter-service/internal/model"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get loads the singleton rate settings row plus the machine profile table.
// The result is treated as an immutable snapshot for one computation.
func (r *SettingsRepository) Get(ctx context.Context) (*model.RateSettings, error) {
	var row struct {
		ElectricityPricePerKwh  float64
		FilamentCostPerKg       float64
		ResinCostPerKg          float64
		LaborHourlyRate         float64
		LaborHourlyRatePainting float64
		LaborHourlyRateModeling float64
		StartupFee              float64
		WholesaleThreshold      int
		WholesaleMarginPercent  float64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			electricity_price_per_kwh,
			filament_cost_per_kg,
			resin_cost_per_kg,
			labor_hourly_rate,
			labor_hourly_rate_painting,
			labor_hourly_rate_modeling,
			startup_fee,
			wholesale_threshold,
			wholesale_margin_percent
		FROM quoter_settings
		WHERE id = 1
		LIMIT 1
	`).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	var machines []model.MachineProfile
	err = r.db.WithContext(ctx).Raw(`
		SELECT id, name, type, hourly_rate
		FROM machine_profiles
		ORDER BY name ASC
	`).Scan(&machines).Error
	if err != nil {
		return nil, err
	}

	return &model.RateSettings{
		ElectricityPricePerKwh:  row.ElectricityPricePerKwh,
		FilamentCostPerKg:       row.FilamentCostPerKg,
		ResinCostPerKg:          row.ResinCostPerKg,
		LaborHourlyRate:         row.LaborHourlyRate,
		LaborHourlyRatePainting: row.LaborHourlyRatePainting,
		LaborHourlyRateModeling: row.LaborHourlyRateModeling,
		StartupFee:              row.StartupFee,
		WholesaleThreshold:      row.WholesaleThreshold,
		WholesaleMarginPercent:  row.WholesaleMarginPercent,
		Machines:                machines,
	}, nil
}
