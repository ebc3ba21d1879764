package postgres

import (
	"encoding/json"
	"price-estimator-service/internal/core/domain"
)

// estimateDetails - то, что хранится в valuation_results.details
type estimateDetails struct {
	DealType    domain.DealType    `json:"deal_type"`
	City        string             `json:"city"`
	Region      string             `json:"region"`
	FinalPrice  float64            `json:"final_price"`
	ModelPrice  float64            `json:"model_price"`
	Comparables []comparableRecord `json:"comparables"`
}

type comparableRecord struct {
	Price          float64  `json:"price"`
	AreaTotal      *float64 `json:"area_total"`
	Rooms          *int     `json:"rooms"`
	Address        string   `json:"address,omitempty"`
	URL            string   `json:"url,omitempty"`
	FloorInfo      string   `json:"floor_info,omitempty"`
	PriceFormatted string   `json:"price_formatted,omitempty"`
}

func marshalDetails(estimate *domain.Estimate) ([]byte, error) {
	if estimate == nil {
		return nil, nil
	}

	details := estimateDetails{
		DealType:    estimate.DealType,
		City:        estimate.City,
		Region:      estimate.Region,
		FinalPrice:  estimate.FinalPrice,
		ModelPrice:  estimate.ModelPrice,
		Comparables: make([]comparableRecord, 0, len(estimate.Comparables)),
	}
	for _, c := range estimate.Comparables {
		details.Comparables = append(details.Comparables, comparableRecord{
			Price:          c.Price,
			AreaTotal:      c.AreaTotal,
			Rooms:          c.Rooms,
			Address:        c.Address,
			URL:            c.URL,
			FloorInfo:      c.FloorInfo,
			PriceFormatted: c.PriceFormatted,
		})
	}
	return json.Marshal(details)
}

func unmarshalDetails(raw []byte) (*domain.Estimate, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var details estimateDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, err
	}

	estimate := &domain.Estimate{
		DealType:    details.DealType,
		City:        details.City,
		Region:      details.Region,
		FinalPrice:  details.FinalPrice,
		ModelPrice:  details.ModelPrice,
		Comparables: make([]domain.Comparable, 0, len(details.Comparables)),
	}
	for _, c := range details.Comparables {
		estimate.Comparables = append(estimate.Comparables, domain.Comparable{
			Price:          c.Price,
			AreaTotal:      c.AreaTotal,
			Rooms:          c.Rooms,
			Address:        c.Address,
			URL:            c.URL,
			FloorInfo:      c.FloorInfo,
			DealType:       details.DealType,
			City:           details.City,
			Region:         details.Region,
			PriceFormatted: c.PriceFormatted,
		})
	}
	return estimate, nil
}
