package lookup

import (
	"strings"

	"gorm.io/gorm"
)

type LookupServiceAPI interface {
	GetAllStates() []State
	GetCitiesByState(uf string) ([]string, error)
	GetOccurrenceCategories() ([]string, error)
}

// LookupService feeds the form pickers. Cities and categories come from
// values already registered, so the pickers grow with the data.
type LookupService struct {
	DB *gorm.DB
}

func NewLookupService(db *gorm.DB) *LookupService {
	return &LookupService{DB: db}
}

func (ls *LookupService) GetAllStates() []State {
	out := make([]State, len(states))
	copy(out, states)
	return out
}

func (ls *LookupService) GetCitiesByState(uf string) ([]string, error) {
	cities := []string{}
	result := ls.DB.
		Table("addresses").
		Distinct("city").
		Where("uf = ? AND city <> ''", strings.ToUpper(uf)).
		Order("city ASC").
		Pluck("city", &cities)
	if result.Error != nil {
		return nil, result.Error
	}
	return cities, nil
}

func (ls *LookupService) GetOccurrenceCategories() ([]string, error) {
	categories := []string{}
	result := ls.DB.
		Table("occurrences").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories)
	if result.Error != nil {
		return nil, result.Error
	}
	return categories, nil
}
