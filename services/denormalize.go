package services

import (
	"fmt"

	"tcg-pipeline/frame"
	"tcg-pipeline/models"
	"tcg-pipeline/utils"
)

// Count columns joined onto the card table, in join order.
var CountColumns = []string{"num_abilities", "num_attacks", "num_resistances", "num_weaknesses"}

// Denormalizer joins the flattened tables into one row per card and price type.
type Denormalizer struct {
	logger *utils.Logger
	// ZeroFillCounts writes 0 instead of null for cards with no sub-rows.
	ZeroFillCounts bool
}

func NewDenormalizer(logger *utils.Logger, zeroFillCounts bool) *Denormalizer {
	return &Denormalizer{logger: logger, ZeroFillCounts: zeroFillCounts}
}

// Denormalize left-joins the per-card counts and the price table onto the
// card table, tags unpriced rows with the "unknown" price type and replaces
// card_id with the composite card_type_id key as the first column.
func (d *Denormalizer) Denormalize(t *models.CardTables) (*frame.Frame, error) {
	counts := []*frame.Frame{
		countByCard(CountColumns[0], len(t.Abilities), func(i int) string { return t.Abilities[i].CardID }),
		countByCard(CountColumns[1], len(t.Attacks), func(i int) string { return t.Attacks[i].CardID }),
		countByCard(CountColumns[2], len(t.Resistances), func(i int) string { return t.Resistances[i].CardID }),
		countByCard(CountColumns[3], len(t.Weaknesses), func(i int) string { return t.Weaknesses[i].CardID }),
	}

	out := t.CardFrame()
	for _, right := range append(counts, t.PriceFrame()) {
		joined, err := out.LeftJoin(right, models.ColCardID)
		if err != nil {
			return nil, fmt.Errorf("denormalize: %w", err)
		}
		out = joined
	}

	if d.ZeroFillCounts {
		for _, c := range CountColumns {
			out = out.FillNull(c, int64(0))
		}
	}

	out = out.FillNull(models.ColPriceType, models.UnknownPriceType)

	base := out
	idIdx, ptIdx := base.Index(models.ColCardID), base.Index(models.ColPriceType)
	out = base.WithColumn(models.ColCardTypeID, func(i int) any {
		r := base.Rows[i]
		return r[idIdx].(string) + models.CompositeSeparator + r[ptIdx].(string)
	})

	out, err := out.Select(OutputColumns()...)
	if err != nil {
		return nil, fmt.Errorf("denormalize: reorder: %w", err)
	}

	keys := utils.NewKeySet()
	for i := range out.Rows {
		key := out.Rows[i][0].(string)
		if keys.Contains(key) {
			return nil, fmt.Errorf("denormalize: duplicate %s %q", models.ColCardTypeID, key)
		}
		keys.Add(key)
	}

	d.logger.Info("[denormalize] %d cards → %d rows × %d columns", len(t.Cards), out.Len(), len(out.Columns))
	return out, nil
}

// OutputColumns is the column order of the denormalized table.
func OutputColumns() []string {
	cols := []string{models.ColCardTypeID}
	cols = append(cols, models.CardColumns[1:]...)
	cols = append(cols, CountColumns...)
	return append(cols, models.PriceColumns[1:]...)
}

// countByCard counts rows per card id, keeping ids in first-seen order.
func countByCard(column string, n int, cardID func(i int) string) *frame.Frame {
	f := frame.New(models.ColCardID, column)
	pos := make(map[string]int)
	for i := 0; i < n; i++ {
		id := cardID(i)
		if p, ok := pos[id]; ok {
			f.Rows[p][1] = f.Rows[p][1].(int64) + 1
			continue
		}
		pos[id] = len(f.Rows)
		f.Rows = append(f.Rows, []any{id, int64(1)})
	}
	return f
}
