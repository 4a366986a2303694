package config

import (
	"os"
	"strconv"
	"time"
)

// Get returns the environment value for key, or fallback when unset/empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetFloat returns the environment value for key parsed as a float, or
// fallback when unset or unparsable.
func GetFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// Params holds the dispatch constants, fixed at process start.
type Params struct {
	AvgSpeedKmph      float64
	FuelPricePerLiter float64
	TollRatePerKm     float64
	RevenueRatePerKm  float64
	TankCapacityL     float64

	// Selection.
	QualityGate            float64
	FairnessPenaltyPerTrip float64
	FairnessPenaltyCap     float64
	RecencyWindow          time.Duration
	RecencyBonus           float64

	// Confidence.
	LoadPenaltyFactor float64
	FuelPenaltyFactor float64
	HighLoadPercent   float64
	FuelOKPercent     float64
	TrafficScore      float64

	// Opportunistic loads.
	OpportunisticRatePerKg float64
}

// Defaults returns the standard parameter set.
func Defaults() Params {
	return Params{
		AvgSpeedKmph:      55,
		FuelPricePerLiter: 95,
		TollRatePerKm:     1.5,
		RevenueRatePerKm:  30,
		TankCapacityL:     400,

		QualityGate:            0.5,
		FairnessPenaltyPerTrip: 0.1,
		FairnessPenaltyCap:     0.3,
		RecencyWindow:          24 * time.Hour,
		RecencyBonus:           0.15,

		LoadPenaltyFactor: 0.8,
		FuelPenaltyFactor: 0.6,
		HighLoadPercent:   85,
		FuelOKPercent:     20,
		TrafficScore:      0.9,

		OpportunisticRatePerKg: 0.5,
	}
}

// FromEnv returns Defaults overridden by any DISPATCH_* environment values.
func FromEnv() Params {
	p := Defaults()
	p.AvgSpeedKmph = GetFloat("DISPATCH_AVG_SPEED_KMPH", p.AvgSpeedKmph)
	p.FuelPricePerLiter = GetFloat("DISPATCH_FUEL_PRICE", p.FuelPricePerLiter)
	p.TollRatePerKm = GetFloat("DISPATCH_TOLL_RATE", p.TollRatePerKm)
	p.RevenueRatePerKm = GetFloat("DISPATCH_REVENUE_RATE", p.RevenueRatePerKm)
	p.TrafficScore = GetFloat("DISPATCH_TRAFFIC_SCORE", p.TrafficScore)
	return p
}
