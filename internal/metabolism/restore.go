package metabolism

import "github.com/moshpitcodes/livinglands-core/internal/effectdiff"

// RestoreAmounts is the per-stat base restoration a tier grants before kind
// multipliers are applied. Index 0 (tier 0) is intentionally unused, per
// spec.md.
type RestoreAmounts struct {
	Hunger float64
	Thirst float64
	Energy float64
}

// hungerByTier, thirstByTier, energyByTier index by effectdiff.Tier (1-3);
// index 0 is the unused placeholder spec.md calls out.
var (
	hungerByTier = [4]float64{0, 15, 30, 50}
	thirstByTier = [4]float64{0, 15, 30, 50}
	energyByTier = [4]float64{0, 10, 20, 35}
)

// BaseRestoreForTier returns the base per-stat restoration for a tier,
// before any kind multiplier is applied.
func BaseRestoreForTier(tier effectdiff.Tier) RestoreAmounts {
	i := int(tier)
	if i < 0 || i > 3 {
		i = 2
	}
	return RestoreAmounts{
		Hunger: hungerByTier[i],
		Thirst: thirstByTier[i],
		Energy: energyByTier[i],
	}
}

// kindMultiplier is a per-stat multiplier applied on top of the tier base.
type kindMultiplier struct {
	Hunger float64
	Thirst float64
	Energy float64
}

var kindMultipliers = map[effectdiff.Kind]kindMultiplier{
	effectdiff.KindMeat:          {Hunger: 1.3, Thirst: 0.5, Energy: 1.0},
	effectdiff.KindFruitVeggie:   {Hunger: 0.9, Thirst: 1.5, Energy: 1.0},
	effectdiff.KindBread:         {Hunger: 1.1, Thirst: 0.6, Energy: 1.0},
	effectdiff.KindWater:         {Hunger: 0, Thirst: 2.0, Energy: 0},
	effectdiff.KindMilk:          {Hunger: 0.4, Thirst: 1.2, Energy: 0.2},
	effectdiff.KindHealthPotion:  {Hunger: 0.3, Thirst: 2.0, Energy: 0},
	effectdiff.KindStaminaPotion: {Hunger: 0.2, Thirst: 0.5, Energy: 2.0},
	effectdiff.KindManaPotion:    {Hunger: 0, Thirst: 2.0, Energy: 0.3},
	effectdiff.KindInstantHeal:   {Hunger: 0.25, Thirst: 0.2, Energy: 0},
	effectdiff.KindHealthRegen:   {Hunger: 0.2, Thirst: 0.2, Energy: 0},
	effectdiff.KindHealthBoost:   {Hunger: 0.1, Thirst: 0.1, Energy: 0},
	effectdiff.KindStaminaBoost:  {Hunger: 0, Thirst: 0.1, Energy: 1.5},
	effectdiff.KindGeneric:       {Hunger: 1.0, Thirst: 1.0, Energy: 1.0},
}

// RestorationFor computes the actual restore amounts an effect of the
// given tier and kind grants, before clamping against current stat values.
func RestorationFor(tier effectdiff.Tier, kind effectdiff.Kind) RestoreAmounts {
	base := BaseRestoreForTier(tier)
	mult, ok := kindMultipliers[kind]
	if !ok {
		mult = kindMultipliers[effectdiff.KindGeneric]
	}
	return RestoreAmounts{
		Hunger: base.Hunger * mult.Hunger,
		Thirst: base.Thirst * mult.Thirst,
		Energy: base.Energy * mult.Energy,
	}
}

// ActualRestore computes min(100-current, restoreAmount) per spec.md,
// never allowing a restoration to push a stat past 100 or go negative.
func ActualRestore(current, restoreAmount float64) float64 {
	headroom := statMax - current
	if headroom < 0 {
		headroom = 0
	}
	if restoreAmount < 0 {
		return 0
	}
	if restoreAmount > headroom {
		return headroom
	}
	return restoreAmount
}
