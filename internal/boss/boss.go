package boss

import (
	"bossbot/internal/common"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// A voting rotation needs at least this many bosses
const POOL_SIZE = 4

// A boss eligible for the weekly rotation
type Boss struct {
	Name     string `json:"name"`
	APIKey   string `json:"api_name"` // Metric name used by the stats provider
	Level    int    `json:"level"`
	Location string `json:"location"`
	Image    string `json:"image"`
}

func (boss Boss) String() string {
	return fmt.Sprintf("%s | %d | %s", boss.Name, boss.Level, boss.Location)
}

// Same boss, identity is the name
func (boss Boss) Is(other Boss) bool {
	return strings.EqualFold(boss.Name, other.Name)
}

type Catalog []Boss

// Read the catalog from a JSON file and validate it
func LoadCatalog(filename string) (Catalog, error) {

	var catalog Catalog
	db := common.NewDatabase(filename)
	if err := db.Load(&catalog); err != nil {
		if errors.Is(err, common.ErrNoData) {
			return nil, common.Wrap(common.ResourceError, fmt.Sprintf("boss catalog %s not found", filename), err)
		}
		return nil, common.Wrap(common.ValidationError, "could not load boss catalog", err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	log.Info().Msg(fmt.Sprintf("Loaded %d bosses", len(catalog)))
	return catalog, nil
}

// Every boss needs a name and a key, names are unique, and there
// are enough bosses to fill a voting pool
func (catalog Catalog) Validate() error {

	seen := map[string]struct{}{}
	for i, boss := range catalog {
		if strings.TrimSpace(boss.Name) == "" {
			return common.NewError(common.ValidationError, fmt.Sprintf("boss %d has no name", i))
		}
		if strings.TrimSpace(boss.APIKey) == "" {
			return common.NewError(common.ValidationError, fmt.Sprintf("boss %s has no api name", boss.Name))
		}
		if boss.Level < 0 {
			return common.NewError(common.ValidationError, fmt.Sprintf("boss %s has a negative level", boss.Name))
		}
		key := strings.ToLower(boss.Name)
		if _, ok := seen[key]; ok {
			return common.NewError(common.ValidationError, fmt.Sprintf("boss %s appears twice", boss.Name))
		}
		seen[key] = struct{}{}
	}

	if len(catalog) < POOL_SIZE {
		return common.NewError(common.ValidationError, fmt.Sprintf("catalog has %d bosses, at least %d are needed", len(catalog), POOL_SIZE))
	}
	return nil
}

// Find a boss by its name, ignoring case
func (catalog Catalog) Find(name string) (Boss, bool) {
	name = strings.TrimSpace(name)
	for _, boss := range catalog {
		if strings.EqualFold(boss.Name, name) {
			return boss, true
		}
	}
	return Boss{}, false
}

// Whether the list contains the boss
func Contains(bosses []Boss, boss Boss) bool {
	for _, b := range bosses {
		if b.Is(boss) {
			return true
		}
	}
	return false
}
