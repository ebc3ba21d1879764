package port

// LocationDirectoryPort - статический справочник городов и регионов.
// Строится один раз при старте и дальше только читается.
type LocationDirectoryPort interface {
	RegionOf(city string) (string, bool)
	LocationID(city string) (string, bool)
	CitiesOf(region string) []string
	IsRegion(name string) bool
	Regions() []string
}
