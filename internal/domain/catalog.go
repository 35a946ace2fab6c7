package domain

var defaultStrength = []string{
	"Румынская тяга",
	"Ягодичный мостик",
	"Болгарский выпад",
	"Скручивания (пресс) в тренажере",
	"Воздушные выпады с отягощением на степе",
	"Отведения ноги назад в кроссовере",
	"Отведение ноги в сторону в кроссовере",
	"Скручивания и разгибание колен на полу",
}

var defaultCardio = []string{
	"Бег на дорожке",
}

// Catalog holds a user's custom exercise names by kind
type Catalog struct {
	Strength []string
	Cardio   []string
}

// Names returns the custom names of one kind
func (c Catalog) Names(kind Kind) []string {
	if kind == KindCardio {
		return c.Cardio
	}
	return c.Strength
}

// DefaultNames returns a copy of the built-in names of one kind
func DefaultNames(kind Kind) []string {
	src := defaultStrength
	if kind == KindCardio {
		src = defaultCardio
	}
	return append([]string(nil), src...)
}

// IsDefault reports whether name is a built-in exercise of kind
func IsDefault(kind Kind, name string) bool {
	for _, n := range DefaultNames(kind) {
		if n == name {
			return true
		}
	}
	return false
}

// Choices lists the defaults followed by custom names not already present
func Choices(c Catalog, kind Kind) []string {
	names := DefaultNames(kind)
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		seen[n] = struct{}{}
	}
	for _, n := range c.Names(kind) {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	return names
}

// Contains reports whether name is selectable for kind
func Contains(c Catalog, kind Kind, name string) bool {
	for _, n := range Choices(c, kind) {
		if n == name {
			return true
		}
	}
	return false
}
