package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownLocation   = errors.New("unknown location")
	ErrModelUnavailable  = errors.New("price model unavailable")
	ErrValuationNotFound = errors.New("valuation not found")
	ErrInvalidInput      = errors.New("invalid valuation input")
)

const (
	ValuationStatusNew        = "new"
	ValuationStatusProcessing = "processing"
	ValuationStatusDone       = "done"
	ValuationStatusFailed     = "failed"
)

// ValuationInput - параметры объекта, по которым считается оценка.
type ValuationInput struct {
	Location     string   `json:"location"` // город или регион
	DealType     DealType `json:"deal_type"`
	BuildingType string   `json:"building_type"`
	ObjectType   string   `json:"object_type"`
	Level        int      `json:"level"`
	Levels       int      `json:"levels"`
	Rooms        int      `json:"rooms"`
	Area         float64  `json:"area"`
	KitchenArea  *float64 `json:"kitchen_area,omitempty"`
}

// Validate проверяет обязательные поля.
func (in ValuationInput) Validate() error {
	switch {
	case in.Location == "":
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	case !in.DealType.Valid():
		return fmt.Errorf("%w: deal type %d", ErrInvalidInput, int(in.DealType))
	case in.Rooms < 0:
		return fmt.Errorf("%w: rooms must not be negative", ErrInvalidInput)
	case in.Area <= 0:
		return fmt.Errorf("%w: area must be positive", ErrInvalidInput)
	}
	return nil
}

// WithDefaults заполняет необязательные поля так же, как это делает API.
func (in ValuationInput) WithDefaults() ValuationInput {
	if in.BuildingType == "" {
		in.BuildingType = "1"
	}
	if in.ObjectType == "" {
		in.ObjectType = "1"
	}
	if in.Level == 0 {
		in.Level = 1
	}
	if in.Levels == 0 {
		in.Levels = 5
	}
	if in.KitchenArea == nil || *in.KitchenArea <= 0 {
		kitchen := in.Area * 0.2
		in.KitchenArea = &kitchen
	}
	return in
}

// ResolvedLocation - город и регион, к которым привязана оценка.
type ResolvedLocation struct {
	City   string
	Region string
}

// Estimate - итог оценки.
type Estimate struct {
	DealType    DealType
	City        string
	Region      string
	FinalPrice  float64
	ModelPrice  float64
	Comparables []Comparable
}

// ModelFeatures - нормализованные признаки для модели оценки.
type ModelFeatures map[string]interface{}

// Valuation - сохраненная заявка на оценку и ее результат.
type Valuation struct {
	ID        uuid.UUID
	ClientID  uuid.UUID // uuid.Nil - заявка без клиента (синхронный /predict)
	Input     ValuationInput
	Status    string
	CreatedAt time.Time

	Result *ValuationResult
}

type ValuationResult struct {
	Price     int64
	Estimate  *Estimate
	Error     string
	CreatedAt time.Time
}
