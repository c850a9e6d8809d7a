package services

import "tcg-pipeline/models"

func sp(s string) *string   { return &s }
func ip(i int64) *int64     { return &i }
func fp(f float64) *float64 { return &f }

// charizard has two types, no abilities and a single normal price.
func charizard() *models.Card {
	return &models.Card{
		ID:    "base1-4",
		Name:  sp("Charizard"),
		HP:    sp("120"),
		Types: []string{"Fire", "Flying"},
		Set: &models.Set{
			ID:          sp("base1"),
			Name:        sp("Base"),
			ReleaseDate: sp("1999/01/09"),
		},
		Attacks: []models.Attack{
			{Name: sp("Fire Spin"), Cost: []string{"Fire", "Fire", "Fire", "Fire"}, ConvertedEnergyCost: ip(4), Damage: sp("100")},
		},
		Weaknesses: []models.TypeValue{{Type: sp("Water"), Value: sp("×2")}},
		TCGPlayer: &models.TCGPlayer{Prices: &models.Prices{
			Normal: &models.PricePoint{Low: fp(250), Market: fp(320.5)},
		}},
	}
}

// venusaur carries three price variants and an ability.
func venusaur() *models.Card {
	return &models.Card{
		ID:                     "base1-15",
		Name:                   sp("Venusaur"),
		Supertype:              sp("Pokémon"),
		Subtypes:               []string{"Stage 2", "Rare", "Holo", "Classic", "Extra"},
		Types:                  []string{"Grass"},
		Rules:                  []string{"Rule one.", "Rule two."},
		Abilities:              []models.Ability{{Name: sp("Energy Trans"), Type: sp("Pokémon Power")}},
		NationalPokedexNumbers: []int64{3, 4},
		Set: &models.Set{ID: sp("base1"), ReleaseDate: sp("1999/01/09"),
			Legalities: &models.Legalities{Unlimited: sp("Legal")}},
		TCGPlayer: &models.TCGPlayer{Prices: &models.Prices{
			Holofoil:             &models.PricePoint{Market: fp(80)},
			ReverseHolofoil:      &models.PricePoint{Market: fp(40)},
			FirstEditionHolofoil: &models.PricePoint{Market: fp(900)},
		}},
	}
}

// energy is a trainer-like card with no nested data at all.
func energy() *models.Card {
	return &models.Card{ID: "base1-97", Name: sp("Fire Energy")}
}
