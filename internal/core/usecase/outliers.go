package usecase

import (
	"math"
	"price-estimator-service/internal/core/domain"
	"sort"
)

// Коэффициент межквартильного размаха для границ выбросов
const iqrFenceFactor = 1.5

// minSampleForQuartiles - меньше трех значений квартили не считаем
const minSampleForQuartiles = 3

// FilterPriceBand отбрасывает заведомо ошибочные цены, выпавшие из
// правдоподобного диапазона для типа сделки. Порядок сохраняется.
func FilterPriceBand(prices []float64, band domain.PriceBand) []float64 {
	kept := make([]float64, 0, len(prices))
	for _, p := range prices {
		if band.Contains(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

// FilterOutliersIQR оставляет значения в пределах [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
// При выборке меньше трех значений возвращает вход без изменений.
func FilterOutliersIQR(prices []float64) []float64 {
	if len(prices) < minSampleForQuartiles {
		return prices
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 0.25)
	q3 := percentile(sorted, 0.75)
	iqr := q3 - q1
	low, high := q1-iqrFenceFactor*iqr, q3+iqrFenceFactor*iqr

	kept := make([]float64, 0, len(prices))
	for _, p := range prices {
		if p >= low && p <= high {
			kept = append(kept, p)
		}
	}
	return kept
}

// Median - медиана; для четного числа значений берется среднее двух центральных.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// percentile с линейной интерполяцией между соседними порядковыми статистиками.
// sorted должен быть отсортирован по возрастанию и не пуст.
func percentile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}
