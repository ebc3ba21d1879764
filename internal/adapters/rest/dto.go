package rest

import (
	"price-estimator-service/internal/core/domain"
	"strings"
	"time"
)

// ValuationRequest - тело POST /predict и POST /valuations
type ValuationRequest struct {
	Location     string   `json:"location"`
	DealType     string   `json:"deal_type"`
	BuildingType string   `json:"building_type,omitempty"`
	ObjectType   string   `json:"object_type,omitempty"`
	Level        int      `json:"level,omitempty"`
	Levels       int      `json:"levels,omitempty"`
	Rooms        int      `json:"rooms"`
	Area         float64  `json:"area"`
	KitchenArea  *float64 `json:"kitchen_area,omitempty"`
}

func (r ValuationRequest) toDomain() (domain.ValuationInput, error) {
	dealType, err := domain.ParseDealType(r.DealType)
	if err != nil {
		return domain.ValuationInput{}, err
	}
	return domain.ValuationInput{
		Location:     strings.TrimSpace(r.Location),
		DealType:     dealType,
		BuildingType: r.BuildingType,
		ObjectType:   r.ObjectType,
		Level:        r.Level,
		Levels:       r.Levels,
		Rooms:        r.Rooms,
		Area:         r.Area,
		KitchenArea:  r.KitchenArea,
	}, nil
}

func toValuationRequest(in domain.ValuationInput) ValuationRequest {
	return ValuationRequest{
		Location:     in.Location,
		DealType:     in.DealType.String(),
		BuildingType: in.BuildingType,
		ObjectType:   in.ObjectType,
		Level:        in.Level,
		Levels:       in.Levels,
		Rooms:        in.Rooms,
		Area:         in.Area,
		KitchenArea:  in.KitchenArea,
	}
}

type AnalogResponse struct {
	Price          float64  `json:"price"`
	PriceFormatted string   `json:"price_formatted"`
	Area           *float64 `json:"area"`
	Rooms          *int     `json:"rooms"`
	Address        string   `json:"address"`
	URL            string   `json:"url"`
	FloorInfo      string   `json:"floor_info"`
}

type PredictResponse struct {
	Success          bool             `json:"success"`
	Price            float64          `json:"price"`
	PriceFormatted   string           `json:"price_formatted"`
	MLPrice          float64          `json:"ml_price"`
	MLPriceFormatted string           `json:"ml_price_formatted"`
	IsRent           bool             `json:"is_rent"`
	PriceSuffix      string           `json:"price_suffix"`
	Region           string           `json:"region"`
	City             string           `json:"city"`
	Area             float64          `json:"area"`
	Rooms            int              `json:"rooms"`
	AnalogsCount     int              `json:"analogs_count"`
	Analogs          []AnalogResponse `json:"analogs"`
	Message          string           `json:"message"`
}

type SubmitValuationResponse struct {
	ValuationID string `json:"valuation_id"`
	Status      string `json:"status"`
}

type ValuationResultResponse struct {
	Price          int64            `json:"price,omitempty"`
	PriceFormatted string           `json:"price_formatted,omitempty"`
	Estimate       *PredictResponse `json:"estimate,omitempty"`
	Error          string           `json:"error,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

type ValuationResponse struct {
	ValuationID string                   `json:"valuation_id"`
	Status      string                   `json:"status"`
	CreatedAt   time.Time                `json:"created_at"`
	Request     ValuationRequest         `json:"request"`
	Result      *ValuationResultResponse `json:"result,omitempty"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	SaleModelLoaded bool   `json:"sale_model_loaded"`
	RentModelLoaded bool   `json:"rent_model_loaded"`
	RegionsCount    int    `json:"regions_count"`
	Message         string `json:"message"`
}

type TokenRequest struct {
	ClientID string `json:"client_id"`
	APIKey   string `json:"api_key"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
