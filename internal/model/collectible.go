package model

// CollectibleID identifies a collectible; it is the host entity id
type CollectibleID uint64

// Variant is the visual kind of a collectible
type Variant string

const (
	VariantSodaCan       Variant = "soda_can"
	VariantPlasticBottle Variant = "plastic_bottle"
	VariantFoodWaste     Variant = "food_waste"
)

// Variants lists every collectible variant in spawn order
var Variants = []Variant{VariantSodaCan, VariantPlasticBottle, VariantFoodWaste}

// Collectible is a falling waste item the player can pick up
type Collectible struct {
	ID      CollectibleID
	Variant Variant
	X       float64
	Bounce  float64

	// Active is cleared when the item is collected
	Active bool
	// Grounded is set on the first ground contact, which starts the lifetime
	Grounded bool
}
