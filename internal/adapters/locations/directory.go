package locations

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

//go:embed data/regions.json data/location_ids.json
var defaultData embed.FS

// Directory - справочник регионов, городов и их идентификаторов на площадке.
// После создания не изменяется, поэтому безопасен для параллельного чтения.
type Directory struct {
	regions        []string
	citiesByRegion map[string][]string // ключ - свернутое название региона
	regionName     map[string]string   // свернутое -> исходное
	regionOfCity   map[string]string   // свернутое название города -> регион
	locationIDs    map[string]string   // свернутое название города -> id
}

// NewDirectory строит справочник из готовых таблиц.
func NewDirectory(regionToCities map[string][]string, cityIDs map[string]string) *Directory {
	d := &Directory{
		citiesByRegion: make(map[string][]string, len(regionToCities)),
		regionName:     make(map[string]string, len(regionToCities)),
		regionOfCity:   make(map[string]string),
		locationIDs:    make(map[string]string, len(cityIDs)),
	}

	for region, cities := range regionToCities {
		key := fold(region)
		d.regions = append(d.regions, region)
		d.regionName[key] = region
		d.citiesByRegion[key] = append([]string(nil), cities...)
		for _, city := range cities {
			d.regionOfCity[fold(city)] = region
		}
	}
	sort.Strings(d.regions)

	for city, id := range cityIDs {
		d.locationIDs[fold(city)] = id
	}
	return d
}

// Load читает таблицы из файлов; пустой путь означает встроенные данные.
func Load(regionsPath, locationIDsPath string) (*Directory, error) {
	var regionToCities map[string][]string
	if err := readJSON(regionsPath, "data/regions.json", &regionToCities); err != nil {
		return nil, fmt.Errorf("locations: regions: %w", err)
	}

	var cityIDs map[string]string
	if err := readJSON(locationIDsPath, "data/location_ids.json", &cityIDs); err != nil {
		return nil, fmt.Errorf("locations: location ids: %w", err)
	}

	if len(regionToCities) == 0 {
		return nil, fmt.Errorf("locations: region table is empty")
	}
	return NewDirectory(regionToCities, cityIDs), nil
}

func readJSON(path, embedded string, dst interface{}) error {
	var (
		raw []byte
		err error
	)
	if path != "" {
		raw, err = os.ReadFile(path)
	} else {
		raw, err = defaultData.ReadFile(embedded)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func (d *Directory) RegionOf(city string) (string, bool) {
	region, ok := d.regionOfCity[fold(city)]
	return region, ok
}

func (d *Directory) LocationID(city string) (string, bool) {
	id, ok := d.locationIDs[fold(city)]
	return id, ok
}

// CitiesOf возвращает города региона в порядке из исходной таблицы.
func (d *Directory) CitiesOf(region string) []string {
	return append([]string(nil), d.citiesByRegion[fold(region)]...)
}

func (d *Directory) IsRegion(name string) bool {
	_, ok := d.regionName[fold(name)]
	return ok
}

// Regions возвращает регионы в алфавитном порядке.
func (d *Directory) Regions() []string {
	return append([]string(nil), d.regions...)
}
