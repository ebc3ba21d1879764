package domain

const (
	LocationTypeRegion = "region"
	LocationTypeCity   = "city"
)

// LocationEntry - элемент списка локаций для выбора на клиенте.
type LocationEntry struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Value  string `json:"value"`
	Region string `json:"region,omitempty"`
	Parent string `json:"parent,omitempty"`
}
