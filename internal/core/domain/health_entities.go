package domain

// HealthReport - состояние зависимостей сервиса оценки.
type HealthReport struct {
	SaleModelLoaded bool
	RentModelLoaded bool
	RegionsCount    int
}

// Ready - обе модели доступны и справочник локаций не пуст.
func (h HealthReport) Ready() bool {
	return h.SaleModelLoaded && h.RentModelLoaded && h.RegionsCount > 0
}
