// Package registry holds the fixed set of geographic points the ingestion
// pipelines track. The set is static: it mirrors the 20 cities of the
// downstream dataset and changes only with a deploy.
package registry

import (
	"fmt"

	"github.com/maghrebwx/weather-ingest/internal/domain"
)

var locations = []domain.Location{
	{ID: "casablanca", Label: "Casablanca", Lat: 33.5731, Lon: -7.5898},
	{ID: "rabat", Label: "Rabat", Lat: 34.0209, Lon: -6.8416},
	{ID: "marrakech", Label: "Marrakech", Lat: 31.6295, Lon: -7.9811},
	{ID: "fes", Label: "Fès", Lat: 34.0331, Lon: -5.0003},
	{ID: "tanger", Label: "Tanger", Lat: 35.7595, Lon: -5.8340},
	{ID: "meknes", Label: "Meknès", Lat: 34.2610, Lon: -6.5802},
	{ID: "agadir", Label: "Agadir", Lat: 30.4278, Lon: -9.5981},
	{ID: "safi", Label: "Safi", Lat: 32.2994, Lon: -9.2372},
	{ID: "beni-mellal", Label: "Beni Mellal", Lat: 32.3373, Lon: -6.3498},
	{ID: "nador", Label: "Nador", Lat: 35.1681, Lon: -2.9335},
	{ID: "mohammedia", Label: "Mohammedia", Lat: 33.6874, Lon: -7.3820},
	{ID: "tetouan", Label: "Tétouan", Lat: 35.5722, Lon: -5.3724},
	{ID: "el-jadida", Label: "El Jadida", Lat: 33.2316, Lon: -8.5007},
	{ID: "oujda", Label: "Oujda", Lat: 34.6867, Lon: -1.9114},
	{ID: "ouarzazate", Label: "Ouarzazate", Lat: 30.9189, Lon: -6.8934},
	{ID: "essaouira", Label: "Essaouira", Lat: 31.5085, Lon: -9.7595},
	{ID: "tiznit", Label: "Tiznit", Lat: 29.6974, Lon: -9.7316},
	{ID: "al-hoceima", Label: "Al Hoceima", Lat: 35.2517, Lon: -3.9370},
	{ID: "laayoune", Label: "Laâyoune", Lat: 27.1510, Lon: -13.1990},
	{ID: "dakhla", Label: "Dakhla", Lat: 23.6848, Lon: -15.9570},
}

// All returns the full registry in declaration order. The returned slice
// is a copy; callers may not mutate the registry.
func All() []domain.Location {
	out := make([]domain.Location, len(locations))
	copy(out, locations)
	return out
}

// Select returns the locations matching ids, in registry order. An unknown
// id is a configuration error. An empty id list selects the full registry.
func Select(ids []string) ([]domain.Location, error) {
	if len(ids) == 0 {
		return All(), nil
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]domain.Location, 0, len(ids))
	for _, loc := range locations {
		if wanted[loc.ID] {
			out = append(out, loc)
			delete(wanted, loc.ID)
		}
	}
	if len(wanted) > 0 {
		for id := range wanted {
			return nil, fmt.Errorf("unknown location id %q", id)
		}
	}
	return out, nil
}

// Validate checks the registry invariants: unique ids and coordinates in
// range. Called at startup so a bad edit fails the deploy, not a run.
func Validate() error {
	seen := make(map[string]bool, len(locations))
	for _, loc := range locations {
		if err := loc.Validate(); err != nil {
			return err
		}
		if seen[loc.ID] {
			return fmt.Errorf("duplicate location id %q", loc.ID)
		}
		seen[loc.ID] = true
	}
	return nil
}
