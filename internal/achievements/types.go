// Package achievements awards one-off badges for milestones in the journey.
package achievements

// Type identifies an achievement. Each type is earned at most once per user.
type Type string

const (
	FirstSteps    Type = "first_steps"
	Perfectionist Type = "perfectionist"
	CodeElf       Type = "code_elf"
	Champion      Type = "champion"
	Photographer  Type = "photographer"
	WellWisher    Type = "well_wisher"
)

// AllTypes returns all achievement types in display order.
func AllTypes() []Type {
	return []Type{FirstSteps, Perfectionist, CodeElf, Champion, Photographer, WellWisher}
}

// DisplayName returns a human-readable label for the achievement.
func (t Type) DisplayName() string {
	switch t {
	case FirstSteps:
		return "First Steps"
	case Perfectionist:
		return "Perfectionist"
	case CodeElf:
		return "Code Elf"
	case Champion:
		return "Holiday Champion"
	case Photographer:
		return "Photographer"
	case WellWisher:
		return "Well Wisher"
	default:
		return string(t)
	}
}

// Description explains how the achievement is earned.
func (t Type) Description() string {
	switch t {
	case FirstSteps:
		return "Completed your first game"
	case Perfectionist:
		return "Scored 100 on a scored game"
	case CodeElf:
		return "Passed every test in the coding challenge"
	case Champion:
		return "Completed all six games"
	case Photographer:
		return "Shared a photo in the gallery"
	case WellWisher:
		return "Left a wish on the wall"
	default:
		return ""
	}
}

// Icon returns the display icon for the achievement.
func (t Type) Icon() string {
	switch t {
	case FirstSteps:
		return "👣"
	case Perfectionist:
		return "💯"
	case CodeElf:
		return "🧝"
	case Champion:
		return "🏆"
	case Photographer:
		return "📸"
	case WellWisher:
		return "💌"
	default:
		return "✦"
	}
}

// Rarity represents how hard an achievement is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarity returns the tier of the achievement.
func (t Type) Rarity() Rarity {
	switch t {
	case Perfectionist:
		return RarityRare
	case CodeElf:
		return RarityEpic
	case Champion:
		return RarityLegendary
	default:
		return RarityCommon
	}
}
