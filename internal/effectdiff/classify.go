// Package effectdiff snapshots the active-effect set a host reports per
// player per tick and emits only newly-applied effects, classified into a
// tier and kind. Classification is kept as pure functions with no
// dependency on hostapi or any other infrastructure package, following the
// teacher's domain/rules convention that derivation logic stays testable
// in isolation from the systems that call it.
package effectdiff

import "strings"

// Tier is the 1/2/3 strength bucket an effect id resolves to.
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// DeriveTier applies spec's ordered tier-derivation rules to an effect id.
func DeriveTier(id string) Tier {
	switch {
	case strings.Contains(id, "_T1"):
		return Tier1
	case strings.Contains(id, "_T2"):
		return Tier2
	case strings.Contains(id, "_T3"):
		return Tier3
	case strings.Contains(id, "_Tiny"), strings.Contains(id, "_Small"):
		return Tier1
	case strings.Contains(id, "_Medium"):
		return Tier2
	case strings.Contains(id, "_Large"):
		return Tier3
	case strings.Contains(id, "_Lesser"):
		return Tier1
	case strings.Contains(id, "_Greater"):
		return Tier3
	default:
		return Tier2
	}
}

// Kind is the classified consumable/debuff category an effect id resolves
// to.
type Kind string

const (
	KindHealthPotion  Kind = "HEALTH_POTION"
	KindStaminaPotion Kind = "STAMINA_POTION"
	KindManaPotion    Kind = "MANA_POTION"
	KindWater         Kind = "WATER"
	KindMilk          Kind = "MILK"
	KindMeat          Kind = "MEAT"
	KindFruitVeggie   Kind = "FRUIT_VEGGIE"
	KindBread         Kind = "BREAD"
	KindInstantHeal   Kind = "INSTANT_HEAL"
	KindHealthRegen   Kind = "HEALTH_REGEN"
	KindStaminaBoost  Kind = "STAMINA_BOOST"
	KindHealthBoost   Kind = "HEALTH_BOOST"
	KindGeneric       Kind = "GENERIC"
)

// DeriveKind applies spec's ordered prefix/contains rules to an effect id.
func DeriveKind(id string) Kind {
	switch {
	case strings.HasPrefix(id, "Potion_Health"), strings.HasPrefix(id, "Potion_Regen_Health"):
		return KindHealthPotion
	case strings.HasPrefix(id, "Potion_Stamina"):
		return KindStaminaPotion
	case strings.HasPrefix(id, "Potion_Signature"), strings.HasPrefix(id, "Potion_Mana"), strings.HasPrefix(id, "Potion_Morph"):
		return KindManaPotion
	case strings.HasPrefix(id, "Food_Health_Restore"):
		return KindWater
	case id == "Antidote":
		return KindMilk
	case strings.Contains(id, "Meat"):
		return KindMeat
	case strings.Contains(id, "Fruit"), strings.Contains(id, "Veggie"):
		return KindFruitVeggie
	case strings.Contains(id, "Bread"):
		return KindBread
	case strings.Contains(id, "Instant_Heal"):
		return KindInstantHeal
	case strings.Contains(id, "Health_Regen"):
		return KindHealthRegen
	case strings.Contains(id, "Stamina_Regen"):
		return KindStaminaBoost
	case strings.Contains(id, "Health_Boost"):
		return KindHealthBoost
	case strings.Contains(id, "Stamina_Boost"):
		return KindStaminaBoost
	default:
		return KindGeneric
	}
}

// IsRecognizedConsumable reports whether id matches any FOOD/POTION prefix
// category the detector should emit for, as opposed to an unrelated effect
// a host reports that this framework has no classification for.
func IsRecognizedConsumable(id string) bool {
	return DeriveKind(id) != KindGeneric ||
		strings.HasPrefix(id, "Food_") || strings.HasPrefix(id, "Potion_")
}

// DebuffKind is the native-debuff classification used by the metabolism
// engine's rate-limited drain.
type DebuffKind string

const (
	DebuffPoison DebuffKind = "POISON"
	DebuffBurn   DebuffKind = "BURN"
	DebuffStun   DebuffKind = "STUN"
	DebuffFreeze DebuffKind = "FREEZE"
	DebuffRoot   DebuffKind = "ROOT"
	DebuffSlow   DebuffKind = "SLOW"
)

var debuffPrefixes = []struct {
	prefix string
	kind   DebuffKind
}{
	{"Poison", DebuffPoison},
	{"Burn", DebuffBurn},
	{"Stun", DebuffStun},
	{"Freeze", DebuffFreeze},
	{"Root", DebuffRoot},
	{"Slow", DebuffSlow},
}

// DeriveDebuffKind classifies a native debuff id, returning ("", false) if
// id does not match any recognized debuff prefix.
func DeriveDebuffKind(id string) (DebuffKind, bool) {
	for _, p := range debuffPrefixes {
		if strings.HasPrefix(id, p.prefix) {
			return p.kind, true
		}
	}
	return "", false
}

// PoisonDrainMultiplier maps a poison tier to its drain multiplier.
func PoisonDrainMultiplier(t Tier) float64 {
	switch t {
	case Tier1:
		return 0.75
	case Tier3:
		return 1.5
	default:
		return 1.0
	}
}
