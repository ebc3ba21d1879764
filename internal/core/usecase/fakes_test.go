package usecase

import (
	"context"
	"errors"
	"price-estimator-service/internal/core/domain"
	"sync"

	"github.com/google/uuid"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

type fakeDirectory struct {
	regions map[string][]string // регион -> города
	order   []string
	ids     map[string]string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		regions: map[string][]string{
			"Москва":              {"Москва"},
			"Московская область":  {"Подольск", "Мытищи"},
			"Свердловская область": {"Екатеринбург"},
		},
		order: []string{"Москва", "Московская область", "Свердловская область"},
		ids:   map[string]string{"Москва": "1", "Екатеринбург": "4743"},
	}
}

func (d *fakeDirectory) RegionOf(city string) (string, bool) {
	for _, region := range d.order {
		for _, c := range d.regions[region] {
			if c == city {
				return region, true
			}
		}
	}
	return "", false
}

func (d *fakeDirectory) LocationID(city string) (string, bool) {
	id, ok := d.ids[city]
	return id, ok
}

func (d *fakeDirectory) CitiesOf(region string) []string { return d.regions[region] }

func (d *fakeDirectory) IsRegion(name string) bool {
	_, ok := d.regions[name]
	return ok && name != "Москва"
}

func (d *fakeDirectory) Regions() []string { return d.order }

// fakeFetcher отдает заранее заданные ответы по номеру страницы.
type fakeFetcher struct {
	pages map[int]domain.PageFetch
	calls []domain.PageCriteria
}

func (f *fakeFetcher) FetchPage(_ context.Context, criteria domain.PageCriteria) domain.PageFetch {
	f.calls = append(f.calls, criteria)
	if page, ok := f.pages[criteria.Page]; ok {
		return page
	}
	return domain.PageFetch{Body: []byte("")}
}

// fakeExtractor возвращает количество аналогов, записанное в теле страницы
// как "n=<число>", или ошибку для тела "broken".
type fakeExtractor struct {
	byBody map[string][]domain.Comparable
}

func (e *fakeExtractor) ExtractListings(_ context.Context, body []byte, _ domain.DealType) ([]domain.Comparable, error) {
	if string(body) == "broken" {
		return nil, errors.New("malformed page")
	}
	return e.byBody[string(body)], nil
}

func viableListings(n int, price float64) []domain.Comparable {
	listings := make([]domain.Comparable, 0, n)
	for i := 0; i < n; i++ {
		listings = append(listings, domain.Comparable{
			Price:     price + float64(i),
			AreaTotal: ptrFloat(50),
			Rooms:     ptrInt(2),
		})
	}
	return listings
}

type fakeModel struct {
	prediction float64
	err        error
	features   domain.ModelFeatures
}

func (m *fakeModel) Predict(_ context.Context, _ domain.DealType, features domain.ModelFeatures) (float64, error) {
	m.features = features
	return m.prediction, m.err
}

func (m *fakeModel) Loaded(context.Context, domain.DealType) bool { return m.err == nil }

type fakeCollector struct {
	comparables []domain.Comparable
	queries     []domain.Query
}

func (c *fakeCollector) Execute(_ context.Context, query domain.Query) []domain.Comparable {
	c.queries = append(c.queries, query)
	return c.comparables
}

type fakeRepository struct {
	mu         sync.Mutex
	valuations map[uuid.UUID]*domain.Valuation
	statuses   []string
	createErr  error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{valuations: make(map[uuid.UUID]*domain.Valuation)}
}

func (r *fakeRepository) CreateValuation(_ context.Context, v domain.Valuation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.valuations[v.ID] = &v
	return nil
}

func (r *fakeRepository) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.valuations[id]
	if !ok {
		return domain.ErrValuationNotFound
	}
	v.Status = status
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *fakeRepository) SaveResult(_ context.Context, id uuid.UUID, status string, result domain.ValuationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.valuations[id]
	if !ok {
		return domain.ErrValuationNotFound
	}
	v.Status = status
	v.Result = &result
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *fakeRepository) GetValuation(_ context.Context, id uuid.UUID) (*domain.Valuation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.valuations[id]
	if !ok {
		return nil, domain.ErrValuationNotFound
	}
	copied := *v
	return &copied, nil
}

type fakeQueue struct {
	ids []uuid.UUID
	err error
}

func (q *fakeQueue) Enqueue(_ context.Context, id uuid.UUID) error {
	if q.err != nil {
		return q.err
	}
	q.ids = append(q.ids, id)
	return nil
}
