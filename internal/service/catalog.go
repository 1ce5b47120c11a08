package service

import "biomistrz-backend/internal/model"

// DefaultTerritories is the fixed map catalog, seeded once at startup.
// Gameplay never adds or removes entries; contribution state on existing
// documents survives re-seeding.
func DefaultTerritories() []model.Territory {
	return []model.Territory{
		{ID: "warszawa", Name: "Warszawa", Location: model.TerritoryLocation{Lat: 52.2297, Lng: 21.0122, Radius: 12000}, Yield: model.ResourceYield{Gems: 120, Elo: 30}},
		{ID: "krakow", Name: "Kraków", Location: model.TerritoryLocation{Lat: 50.0647, Lng: 19.9450, Radius: 10000}, Yield: model.ResourceYield{Gems: 100, Elo: 25}},
		{ID: "gdansk", Name: "Gdańsk", Location: model.TerritoryLocation{Lat: 54.3520, Lng: 18.6466, Radius: 9000}, Yield: model.ResourceYield{Gems: 90, Elo: 22}},
		{ID: "wroclaw", Name: "Wrocław", Location: model.TerritoryLocation{Lat: 51.1079, Lng: 17.0385, Radius: 9000}, Yield: model.ResourceYield{Gems: 90, Elo: 22}},
		{ID: "poznan", Name: "Poznań", Location: model.TerritoryLocation{Lat: 52.4064, Lng: 16.9252, Radius: 8500}, Yield: model.ResourceYield{Gems: 80, Elo: 20}},
		{ID: "lodz", Name: "Łódź", Location: model.TerritoryLocation{Lat: 51.7592, Lng: 19.4560, Radius: 8500}, Yield: model.ResourceYield{Gems: 80, Elo: 20}},
		{ID: "katowice", Name: "Katowice", Location: model.TerritoryLocation{Lat: 50.2649, Lng: 19.0238, Radius: 8000}, Yield: model.ResourceYield{Gems: 70, Elo: 18}},
		{ID: "lublin", Name: "Lublin", Location: model.TerritoryLocation{Lat: 51.2465, Lng: 22.5684, Radius: 7500}, Yield: model.ResourceYield{Gems: 60, Elo: 15}},
		{ID: "szczecin", Name: "Szczecin", Location: model.TerritoryLocation{Lat: 53.4285, Lng: 14.5528, Radius: 7500}, Yield: model.ResourceYield{Gems: 60, Elo: 15}},
		{ID: "bialystok", Name: "Białystok", Location: model.TerritoryLocation{Lat: 53.1325, Lng: 23.1688, Radius: 7000}, Yield: model.ResourceYield{Gems: 50, Elo: 12}},
	}
}
