package usecase

import (
	"math"
	"price-estimator-service/internal/core/domain"
	"strconv"
)

const unknownFeature = "unknown"

// Справочники кодов из формы в категории, на которых обучена модель аренды
var (
	buildingMaterials = map[string]string{
		"0": "unknown",
		"1": "panel",
		"2": "monolithic",
		"3": "brick",
		"4": "block",
		"5": "wood",
	}
	objectTypes = map[string]string{
		"1": "secondary",
		"2": "new",
	}
)

const newBuildingObjectType = "2"

// BuildModelFeatures готовит признаки для модели нужного типа сделки.
// input должен быть уже дополнен значениями по умолчанию.
func BuildModelFeatures(input domain.ValuationInput, location domain.ResolvedLocation) domain.ModelFeatures {
	if input.DealType == domain.DealRent {
		return rentFeatures(input, location)
	}
	return saleFeatures(input, location)
}

func saleFeatures(input domain.ValuationInput, location domain.ResolvedLocation) domain.ModelFeatures {
	rooms := float64(input.Rooms)
	divisor := math.Max(rooms, 0.5)
	if input.Rooms == 0 {
		divisor = 0.5
	}

	return domain.ModelFeatures{
		"region_name":   orUnknown(location.Region),
		"building_type": orUnknown(input.BuildingType),
		"object_type":   orUnknown(input.ObjectType),
		"level":         float64(input.Level),
		"levels":        float64(input.Levels),
		"rooms":         strconv.Itoa(input.Rooms),
		"area":          input.Area,
		"kitchen_area":  kitchenArea(input),
		"room_size":     input.Area / divisor,
		"floor_ratio":   floorRatio(input),
	}
}

func rentFeatures(input domain.ValuationInput, location domain.ResolvedLocation) domain.ModelFeatures {
	material, ok := buildingMaterials[input.BuildingType]
	if !ok {
		material = unknownFeature
	}
	objectType, ok := objectTypes[input.ObjectType]
	if !ok {
		objectType = "secondary"
	}

	isNew := input.ObjectType == newBuildingObjectType
	buildYear := 1990.0
	if isNew {
		buildYear = 2000
	}

	return domain.ModelFeatures{
		"type":                  objectType,
		"gas":                   unknownFeature,
		"area":                  input.Area,
		"rooms":                 float64(input.Rooms),
		"kitchen_area":          kitchenArea(input),
		"build_year":            buildYear,
		"material":              material,
		"build_series_category": unknownFeature,
		"level":                 float64(input.Level),
		"levels":                float64(input.Levels),
		"rubbish_chute":         unknownFeature,
		"build_overlap":         unknownFeature,
		"build_walls":           unknownFeature,
		"heating":               unknownFeature,
		"city":                  orUnknown(location.City),
		"floor_ratio":           floorRatio(input),
		"is_new_building":       isNew,
	}
}

func floorRatio(input domain.ValuationInput) float64 {
	levels := math.Max(float64(input.Levels), 1)
	ratio := float64(input.Level) / levels
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0.5
	}
	return ratio
}

func kitchenArea(input domain.ValuationInput) float64 {
	if input.KitchenArea == nil {
		return 0
	}
	return *input.KitchenArea
}

func orUnknown(s string) string {
	if s == "" {
		return unknownFeature
	}
	return s
}
