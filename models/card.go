package models

// Card is one printed card as returned by the Pokémon TCG API (v2 /cards).
// Only ID is guaranteed; every other field may be absent.
type Card struct {
	ID                     string        `json:"id"`
	Name                   *string       `json:"name"`
	Supertype              *string       `json:"supertype"`
	Subtypes               []string      `json:"subtypes"`
	HP                     *string       `json:"hp"`
	Types                  []string      `json:"types"`
	EvolvesFrom            *string       `json:"evolvesFrom"`
	Rules                  []string      `json:"rules"`
	AncientTrait           *AncientTrait `json:"ancientTrait"`
	Abilities              []Ability     `json:"abilities"`
	Attacks                []Attack      `json:"attacks"`
	Weaknesses             []TypeValue   `json:"weaknesses"`
	Resistances            []TypeValue   `json:"resistances"`
	ConvertedRetreatCost   *int64        `json:"convertedRetreatCost"`
	Set                    *Set          `json:"set"`
	Number                 *string       `json:"number"`
	Artist                 *string       `json:"artist"`
	Rarity                 *string       `json:"rarity"`
	FlavorText             *string       `json:"flavorText"`
	NationalPokedexNumbers []int64       `json:"nationalPokedexNumbers"`
	RegulationMark         *string       `json:"regulationMark"`
	Images                 *CardImages   `json:"images"`
	TCGPlayer              *TCGPlayer    `json:"tcgplayer"`
}

type AncientTrait struct {
	Name *string `json:"name"`
	Text *string `json:"text"`
}

type Ability struct {
	Name *string `json:"name"`
	Text *string `json:"text"`
	Type *string `json:"type"`
}

type Attack struct {
	Name                *string  `json:"name"`
	Cost                []string `json:"cost"`
	ConvertedEnergyCost *int64   `json:"convertedEnergyCost"`
	Damage              *string  `json:"damage"`
	Text                *string  `json:"text"`
}

// TypeValue is a weakness or resistance entry, e.g. {"type": "Water", "value": "×2"}.
type TypeValue struct {
	Type  *string `json:"type"`
	Value *string `json:"value"`
}

type CardImages struct {
	Small *string `json:"small"`
	Large *string `json:"large"`
}

type Set struct {
	ID           *string     `json:"id"`
	Name         *string     `json:"name"`
	Series       *string     `json:"series"`
	PrintedTotal *int64      `json:"printedTotal"`
	Total        *int64      `json:"total"`
	Legalities   *Legalities `json:"legalities"`
	ReleaseDate  *string     `json:"releaseDate"`
	UpdatedAt    *string     `json:"updatedAt"`
	Images       *SetImages  `json:"images"`
}

type Legalities struct {
	Unlimited *string `json:"unlimited"`
	Expanded  *string `json:"expanded"`
	Standard  *string `json:"standard"`
}

type SetImages struct {
	Symbol *string `json:"symbol"`
	Logo   *string `json:"logo"`
}

type TCGPlayer struct {
	URL       *string `json:"url"`
	UpdatedAt *string `json:"updatedAt"`
	Prices    *Prices `json:"prices"`
}

// Prices holds the market-price variants TCGplayer reports for a card.
type Prices struct {
	Normal               *PricePoint `json:"normal"`
	Holofoil             *PricePoint `json:"holofoil"`
	ReverseHolofoil      *PricePoint `json:"reverseHolofoil"`
	FirstEditionHolofoil *PricePoint `json:"1stEditionHolofoil"`
	FirstEditionNormal   *PricePoint `json:"1stEditionNormal"`
}

type PricePoint struct {
	Low       *float64 `json:"low"`
	Mid       *float64 `json:"mid"`
	High      *float64 `json:"high"`
	Market    *float64 `json:"market"`
	DirectLow *float64 `json:"directLow"`
}

// CardPage is one page of the /cards listing.
type CardPage struct {
	Data       []*Card `json:"data"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	Count      int     `json:"count"`
	TotalCount int     `json:"totalCount"`
}
