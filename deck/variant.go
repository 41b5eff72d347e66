package deck

import (
	"fmt"
	"strings"
)

// Variant carries the payload specific to a card's type.
// The set of implementations is closed: callers switch on the concrete type.
type Variant interface {
	cardType() CardType
}

type AttackVariant struct {
	Damage int
}

type DefenseVariant struct {
	Block int
}

type UtilityVariant struct {
	Power int
}

type ResourceVariant struct {
	Yield int
}

type EventVariant struct {
	Effects []string
}

func (AttackVariant) cardType() CardType   { return Attack }
func (DefenseVariant) cardType() CardType  { return Defense }
func (UtilityVariant) cardType() CardType  { return Utility }
func (ResourceVariant) cardType() CardType { return Resource }
func (EventVariant) cardType() CardType    { return Event }

// VariantOf builds the payload for an authored definition
func VariantOf(def Definition) Variant {
	switch def.Type {
	case Attack:
		return AttackVariant{Damage: def.Attack}
	case Defense:
		return DefenseVariant{Block: def.Defense}
	case Utility:
		return UtilityVariant{Power: def.Utility}
	case Resource:
		return ResourceVariant{Yield: def.Utility}
	case Event:
		effects := make([]string, len(def.Effects))
		copy(effects, def.Effects)
		return EventVariant{Effects: effects}
	}
	return nil
}

// Strength is the headline number of a variant
func Strength(v Variant) int {
	switch v := v.(type) {
	case AttackVariant:
		return v.Damage
	case DefenseVariant:
		return v.Block
	case UtilityVariant:
		return v.Power
	case ResourceVariant:
		return v.Yield
	case EventVariant:
		return len(v.Effects)
	}
	return 0
}

// Describe renders a short human readable summary of a variant
func Describe(v Variant) string {
	switch v := v.(type) {
	case AttackVariant:
		return fmt.Sprintf("deals %d damage", v.Damage)
	case DefenseVariant:
		return fmt.Sprintf("blocks %d damage", v.Block)
	case UtilityVariant:
		return fmt.Sprintf("utility %d", v.Power)
	case ResourceVariant:
		return fmt.Sprintf("yields %d", v.Yield)
	case EventVariant:
		if len(v.Effects) == 0 {
			return "event"
		}
		return "event: " + strings.Join(v.Effects, ", ")
	}
	return "unknown"
}
