package services

import (
	"fmt"
	"strings"

	"tcg-pipeline/models"
	"tcg-pipeline/utils"
)

// Flattener turns nested card records into the flat logical tables.
type Flattener struct {
	logger *utils.Logger
}

// NewFlattener creates a Flattener with the given logger.
func NewFlattener(logger *utils.Logger) *Flattener {
	return &Flattener{logger: logger}
}

// Flatten extracts every table from cards. A card without an id is malformed
// and fails the run; a repeated id keeps its first occurrence.
func (f *Flattener) Flatten(cards []*models.Card) (*models.CardTables, error) {
	seen := utils.NewKeySet()
	tables := &models.CardTables{Cards: make([]models.CardRow, 0, len(cards))}

	for i, card := range cards {
		if card == nil || strings.TrimSpace(card.ID) == "" {
			return nil, fmt.Errorf("flatten: card #%d has no id", i)
		}
		if !seen.Add(card.ID) {
			f.logger.Warn("[flatten] Duplicate card id skipped: %s", card.ID)
			continue
		}

		tables.Cards = append(tables.Cards, ExtractBasic(card))
		tables.Abilities = append(tables.Abilities, ExtractAbilities(card)...)
		tables.Attacks = append(tables.Attacks, ExtractAttacks(card)...)
		tables.Prices = append(tables.Prices, ExtractPrices(card)...)
		tables.Resistances = append(tables.Resistances, ExtractResistances(card)...)
		tables.Weaknesses = append(tables.Weaknesses, ExtractWeaknesses(card)...)
	}

	if dups := len(cards) - seen.Size(); dups > 0 {
		f.logger.Warn("[flatten] %d duplicate cards dropped", dups)
	}
	f.logger.Info("[flatten] %d cards → %d abilities, %d attacks, %d prices, %d resistances, %d weaknesses",
		len(tables.Cards), len(tables.Abilities), len(tables.Attacks), len(tables.Prices),
		len(tables.Resistances), len(tables.Weaknesses))
	return tables, nil
}

// ExtractBasic copies the scalar attributes of a card. Nested objects that are
// absent resolve to nil, and list fields fan out to their fixed arity.
func ExtractBasic(card *models.Card) models.CardRow {
	row := models.CardRow{
		CardID:               card.ID,
		Name:                 card.Name,
		HP:                   card.HP,
		Rarity:               card.Rarity,
		Artist:               card.Artist,
		Supertype:            card.Supertype,
		EvolvesFrom:          card.EvolvesFrom,
		FlavorText:           card.FlavorText,
		ConvertedRetreatCost: card.ConvertedRetreatCost,
		RegulationMark:       card.RegulationMark,
		Rules:                joinList(card.Rules),
		Number:               card.Number,
	}

	if img := card.Images; img != nil {
		row.ImageSmall = img.Small
		row.ImageLarge = img.Large
	}

	if set := card.Set; set != nil {
		row.SetID = set.ID
		row.SetName = set.Name
		row.SetSeries = set.Series
		row.SetPrintedTotal = set.PrintedTotal
		row.SetTotal = set.Total
		row.SetReleaseDate = set.ReleaseDate
		row.SetUpdatedAt = set.UpdatedAt
		if l := set.Legalities; l != nil {
			row.SetLegalitiesUnlimited = l.Unlimited
			row.SetLegalitiesExpanded = l.Expanded
			row.SetLegalitiesStandard = l.Standard
		}
		if img := set.Images; img != nil {
			row.SetImageSymbol = img.Symbol
			row.SetImageLogo = img.Logo
		}
	}

	if at := card.AncientTrait; at != nil {
		row.AncientTraitName = at.Name
		row.AncientTraitText = at.Text
	}

	for i := 0; i < models.MaxTypes; i++ {
		row.Types[i] = stringAt(card.Types, i)
	}
	for i := 0; i < models.MaxSubtypes; i++ {
		row.Subtypes[i] = stringAt(card.Subtypes, i)
	}
	if len(card.NationalPokedexNumbers) > 0 {
		n := card.NationalPokedexNumbers[0]
		row.NationalPokedexNumber = &n
	}

	return row
}

func ExtractAbilities(card *models.Card) []models.AbilityRow {
	rows := make([]models.AbilityRow, 0, len(card.Abilities))
	for _, a := range card.Abilities {
		rows = append(rows, models.AbilityRow{
			CardID: card.ID,
			Name:   a.Name,
			Text:   a.Text,
			Type:   a.Type,
		})
	}
	return rows
}

// ExtractAttacks returns one row per attack, with the energy cost list
// joined into a single string.
func ExtractAttacks(card *models.Card) []models.AttackRow {
	rows := make([]models.AttackRow, 0, len(card.Attacks))
	for _, a := range card.Attacks {
		rows = append(rows, models.AttackRow{
			CardID:              card.ID,
			Name:                a.Name,
			Cost:                strings.Join(a.Cost, models.ListJoinSeparator),
			ConvertedEnergyCost: a.ConvertedEnergyCost,
			Damage:              a.Damage,
			Text:                a.Text,
		})
	}
	return rows
}

// ExtractPrices returns one row per populated TCGplayer price variant, in
// PriceTypes order.
func ExtractPrices(card *models.Card) []models.PriceRow {
	if card.TCGPlayer == nil || card.TCGPlayer.Prices == nil {
		return nil
	}

	var rows []models.PriceRow
	for _, v := range priceVariants(card.TCGPlayer.Prices) {
		if v.point == nil {
			continue
		}
		rows = append(rows, models.PriceRow{
			CardID:    card.ID,
			PriceType: v.name,
			Low:       v.point.Low,
			Mid:       v.point.Mid,
			High:      v.point.High,
			Market:    v.point.Market,
			DirectLow: v.point.DirectLow,
		})
	}
	return rows
}

func ExtractResistances(card *models.Card) []models.TypeValueRow {
	return typeValueRows(card.ID, card.Resistances)
}

func ExtractWeaknesses(card *models.Card) []models.TypeValueRow {
	return typeValueRows(card.ID, card.Weaknesses)
}

// PriceTypes lists the price-type tags in extraction order.
var PriceTypes = []string{"normal", "holofoil", "reverseHolofoil", "firstEditionHolofoil", "firstEditionNormal"}

type priceVariant struct {
	name  string
	point *models.PricePoint
}

func priceVariants(p *models.Prices) []priceVariant {
	points := []*models.PricePoint{p.Normal, p.Holofoil, p.ReverseHolofoil, p.FirstEditionHolofoil, p.FirstEditionNormal}
	out := make([]priceVariant, len(points))
	for i, pt := range points {
		out[i] = priceVariant{name: PriceTypes[i], point: pt}
	}
	return out
}

func typeValueRows(cardID string, entries []models.TypeValue) []models.TypeValueRow {
	rows := make([]models.TypeValueRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.TypeValueRow{CardID: cardID, Type: e.Type, Value: e.Value})
	}
	return rows
}

func joinList(items []string) *string {
	if len(items) == 0 {
		return nil
	}
	s := strings.Join(items, models.ListJoinSeparator)
	return &s
}

func stringAt(items []string, i int) *string {
	if i >= len(items) {
		return nil
	}
	s := items[i]
	return &s
}
