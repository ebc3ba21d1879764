package domain

import (
	"fmt"
	"strings"
)

// DealType - тип сделки: продажа или аренда.
type DealType int

const (
	DealSale DealType = iota
	DealRent
)

const dealTypeCount = 2

func (d DealType) String() string {
	switch d {
	case DealSale:
		return "sale"
	case DealRent:
		return "rent"
	default:
		return fmt.Sprintf("DealType(%d)", int(d))
	}
}

// Valid сообщает, входит ли значение в перечисление.
func (d DealType) Valid() bool {
	return d >= 0 && d < dealTypeCount
}

// ParseDealType разбирает "sale"/"rent" без учета регистра.
func ParseDealType(s string) (DealType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sale":
		return DealSale, nil
	case "rent":
		return DealRent, nil
	}
	return 0, fmt.Errorf("unknown deal type %q", s)
}

func (d DealType) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid deal type %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *DealType) UnmarshalText(text []byte) error {
	parsed, err := ParseDealType(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// PriceBand - диапазон правдоподобных цен объявлений в рублях.
type PriceBand struct {
	Min float64
	Max float64
}

// Contains проверяет попадание цены в диапазон (границы включительно).
func (b PriceBand) Contains(price float64) bool {
	return price >= b.Min && price <= b.Max
}

// DealProfile собирает в одном месте все константы, зависящие от типа сделки.
// Алгоритмы фильтрации, ранжирования и смешивания цен читают только профиль
// и не ветвятся по типу сделки сами.
type DealProfile struct {
	// Сколько страниц выдачи просматривать максимум
	MaxPages int

	// Веса в оценке похожести
	AreaWeight  float64
	RoomsWeight float64

	// Сколько аналогов оставлять после ранжирования
	ShortlistSize int

	// Санитарный фильтр цен перед IQR
	PriceBand PriceBand

	// Веса смешивания цены модели и медианы аналогов
	ModelWeight       float64
	ComparablesWeight float64

	// Искать карточки запасным селектором, если основной ничего не нашел
	RentalCardFallback bool

	// Модель обучена на log1p(цены), предсказание надо вернуть через expm1
	ModelLogTarget bool

	PriceSuffix string
}

var dealProfiles = [dealTypeCount]DealProfile{
	DealSale: {
		MaxPages:          3,
		AreaWeight:        1.0,
		RoomsWeight:       1.0,
		ShortlistSize:     7,
		PriceBand:         PriceBand{Min: 1_000_000, Max: 50_000_000},
		ModelWeight:       0.2,
		ComparablesWeight: 0.8,
		PriceSuffix:       "руб.",
	},
	DealRent: {
		MaxPages:           2,
		AreaWeight:         2.0,
		RoomsWeight:        1.5,
		ShortlistSize:      10,
		PriceBand:          PriceBand{Min: 8_000, Max: 500_000},
		ModelWeight:        0.3,
		ComparablesWeight:  0.7,
		RentalCardFallback: true,
		ModelLogTarget:     true,
		PriceSuffix:        "руб./мес",
	},
}

// ProfileFor возвращает профиль для типа сделки.
// Для значения вне перечисления возвращается профиль продажи.
func ProfileFor(d DealType) DealProfile {
	if !d.Valid() {
		return dealProfiles[DealSale]
	}
	return dealProfiles[d]
}
