package domain

// MinLivableArea - минимальная правдоподобная общая площадь объявления, м².
const MinLivableArea = 10.0

// Query - неизменяемый запрос на поиск аналогов.
type Query struct {
	City     string
	DealType DealType
	Rooms    int // 0 - студия
	Area     float64
}

// Comparable - одно объявление-аналог, извлеченное с площадки.
// Цена, площадь и комнаты после извлечения не меняются: конвейер только
// фильтрует, переставляет и дополняет копии полями City/Region/PriceFormatted.
type Comparable struct {
	Price     float64
	AreaTotal *float64
	Rooms     *int // nil - неизвестно, 0 - студия
	Address   string
	URL       string
	FloorInfo string
	DealType  DealType

	City           string
	Region         string
	PriceFormatted string
}

// Viable - кандидат становится аналогом, только если цена положительна,
// а площадь известна и больше MinLivableArea.
func (c Comparable) Viable() bool {
	return c.Price > 0 && c.AreaTotal != nil && *c.AreaTotal > MinLivableArea
}

// Prices возвращает цены аналогов в исходном порядке.
func Prices(comparables []Comparable) []float64 {
	prices := make([]float64, 0, len(comparables))
	for _, c := range comparables {
		prices = append(prices, c.Price)
	}
	return prices
}

// PageCriteria описывает запрос одной страницы выдачи.
type PageCriteria struct {
	DealType   DealType
	LocationID string
	Page       int
	Rooms      int
	MinArea    float64
	MaxArea    float64
}

// PageFetch - результат загрузки одной страницы.
// Unusable означает блокировку, капчу, редирект на проверку, 403/429/5xx или таймаут.
type PageFetch struct {
	Body     []byte
	Unusable bool
	Reason   string
}
