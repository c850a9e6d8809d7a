package models

import "tcg-pipeline/frame"

// Column names shared by the flattened tables and the denormalized output.
const (
	ColCardID     = "card_id"
	ColCardTypeID = "card_type_id"
	ColPriceType  = "price_type"
)

// Fixed fan-out arities for list-valued card fields.
const (
	MaxTypes           = 2
	MaxSubtypes        = 4
	MaxPokedexNumbers  = 1
	UnknownPriceType   = "unknown"
	ListJoinSeparator  = ", "
	CompositeSeparator = "_"
)

// CardColumns is the column order of the flattened card table.
var CardColumns = []string{
	ColCardID, "name", "hp", "rarity", "artist", "supertype", "evolvesFrom",
	"flavorText", "convertedRetreatCost", "regulationMark", "rules",
	"image_small", "image_large",
	"set_id", "set_name", "set_series", "set_printedTotal", "set_total",
	"set_releaseDate", "set_updatedAt",
	"set_legalities_unlimited", "set_legalities_expanded", "set_legalities_standard",
	"set_image_symbol", "set_image_logo",
	"number", "ancientTrait_name", "ancientTrait_text",
	"type_1", "type_2",
	"subtype_1", "subtype_2", "subtype_3", "subtype_4",
	"nationalPokedexNumber",
}

var (
	AbilityColumns    = []string{ColCardID, "ability_name", "ability_text", "ability_type"}
	AttackColumns     = []string{ColCardID, "attack_name", "attack_cost", "attack_convertedEnergyCost", "attack_damage", "attack_text"}
	PriceColumns      = []string{ColCardID, ColPriceType, "low", "mid", "high", "market", "directLow"}
	ResistanceColumns = []string{ColCardID, "resistance_type", "resistance_value"}
	WeaknessColumns   = []string{ColCardID, "weakness_type", "weakness_value"}
)

// CardRow is the scalar-attribute row extracted from one card.
type CardRow struct {
	CardID                 string
	Name                   *string
	HP                     *string
	Rarity                 *string
	Artist                 *string
	Supertype              *string
	EvolvesFrom            *string
	FlavorText             *string
	ConvertedRetreatCost   *int64
	RegulationMark         *string
	Rules                  *string
	ImageSmall             *string
	ImageLarge             *string
	SetID                  *string
	SetName                *string
	SetSeries              *string
	SetPrintedTotal        *int64
	SetTotal               *int64
	SetReleaseDate         *string
	SetUpdatedAt           *string
	SetLegalitiesUnlimited *string
	SetLegalitiesExpanded  *string
	SetLegalitiesStandard  *string
	SetImageSymbol         *string
	SetImageLogo           *string
	Number                 *string
	AncientTraitName       *string
	AncientTraitText       *string
	Types                  [MaxTypes]*string
	Subtypes               [MaxSubtypes]*string
	NationalPokedexNumber  *int64
}

// Values returns the row in CardColumns order.
func (r CardRow) Values() []any {
	return []any{
		r.CardID, str(r.Name), str(r.HP), str(r.Rarity), str(r.Artist), str(r.Supertype), str(r.EvolvesFrom),
		str(r.FlavorText), integer(r.ConvertedRetreatCost), str(r.RegulationMark), str(r.Rules),
		str(r.ImageSmall), str(r.ImageLarge),
		str(r.SetID), str(r.SetName), str(r.SetSeries), integer(r.SetPrintedTotal), integer(r.SetTotal),
		str(r.SetReleaseDate), str(r.SetUpdatedAt),
		str(r.SetLegalitiesUnlimited), str(r.SetLegalitiesExpanded), str(r.SetLegalitiesStandard),
		str(r.SetImageSymbol), str(r.SetImageLogo),
		str(r.Number), str(r.AncientTraitName), str(r.AncientTraitText),
		str(r.Types[0]), str(r.Types[1]),
		str(r.Subtypes[0]), str(r.Subtypes[1]), str(r.Subtypes[2]), str(r.Subtypes[3]),
		integer(r.NationalPokedexNumber),
	}
}

type AbilityRow struct {
	CardID string
	Name   *string
	Text   *string
	Type   *string
}

func (r AbilityRow) Values() []any {
	return []any{r.CardID, str(r.Name), str(r.Text), str(r.Type)}
}

type AttackRow struct {
	CardID              string
	Name                *string
	Cost                string
	ConvertedEnergyCost *int64
	Damage              *string
	Text                *string
}

func (r AttackRow) Values() []any {
	return []any{r.CardID, str(r.Name), r.Cost, integer(r.ConvertedEnergyCost), str(r.Damage), str(r.Text)}
}

// PriceRow is one populated price-type variant of a card.
type PriceRow struct {
	CardID    string
	PriceType string
	Low       *float64
	Mid       *float64
	High      *float64
	Market    *float64
	DirectLow *float64
}

func (r PriceRow) Values() []any {
	return []any{r.CardID, r.PriceType, float(r.Low), float(r.Mid), float(r.High), float(r.Market), float(r.DirectLow)}
}

// TypeValueRow is a resistance or weakness row.
type TypeValueRow struct {
	CardID string
	Type   *string
	Value  *string
}

func (r TypeValueRow) Values() []any {
	return []any{r.CardID, str(r.Type), str(r.Value)}
}

// CardTables holds the flattened logical tables of one extraction run.
type CardTables struct {
	Cards       []CardRow
	Abilities   []AbilityRow
	Attacks     []AttackRow
	Prices      []PriceRow
	Resistances []TypeValueRow
	Weaknesses  []TypeValueRow
}

// NamedFrames returns every table as a Frame, keyed by its storage table name,
// in a fixed order.
func (t *CardTables) NamedFrames() []NamedFrame {
	return []NamedFrame{
		{"cards", t.CardFrame()},
		{"abilities", toFrame(AbilityColumns, t.Abilities)},
		{"attacks", toFrame(AttackColumns, t.Attacks)},
		{"prices", t.PriceFrame()},
		{"resistances", toFrame(ResistanceColumns, t.Resistances)},
		{"weaknesses", toFrame(WeaknessColumns, t.Weaknesses)},
	}
}

// NamedFrame pairs a Frame with the table name it is stored under.
type NamedFrame struct {
	Name  string
	Frame *frame.Frame
}

func (t *CardTables) CardFrame() *frame.Frame {
	return toFrame(CardColumns, t.Cards)
}

func (t *CardTables) PriceFrame() *frame.Frame {
	return toFrame(PriceColumns, t.Prices)
}

type valuer interface {
	Values() []any
}

func toFrame[T valuer](columns []string, rows []T) *frame.Frame {
	f := frame.New(columns...)
	f.Rows = make([][]any, len(rows))
	for i, r := range rows {
		f.Rows[i] = r.Values()
	}
	return f
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func integer(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func float(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
