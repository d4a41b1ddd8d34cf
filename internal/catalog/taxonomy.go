package catalog

// Model — модель автомобиля и доступные для неё категории запчастей.
type Model struct {
	Name  string
	Parts []string
}

// Brand — марка автомобиля с упорядоченным списком моделей.
type Brand struct {
	Name   string
	Models []Model
}

// Taxonomy — дерево марка → модель → запчасть. Порядок значим: он задаёт ID товаров.
type Taxonomy []Brand

// DefaultTaxonomy возвращает ассортимент магазина.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{Name: "Honda", Models: []Model{
			{Name: "Civic", Parts: []string{"Engine", "Brakes", "Suspension", "Transmission", "Battery"}},
			{Name: "Accord", Parts: []string{"Engine", "Brakes", "Transmission"}},
		}},
		{Name: "Toyota", Models: []Model{
			{Name: "Corolla", Parts: []string{"Engine", "Brakes", "Suspension"}},
			{Name: "Camry", Parts: []string{"Engine", "Transmission", "Battery"}},
		}},
		{Name: "Subaru", Models: []Model{
			{Name: "Impreza", Parts: []string{"Engine", "Brakes", "Suspension"}},
			{Name: "Forester", Parts: []string{"Engine", "Transmission", "Battery"}},
		}},
		{Name: "Mazda", Models: []Model{
			{Name: "3", Parts: []string{"Engine", "Brakes", "Battery"}},
			{Name: "6", Parts: []string{"Engine", "Suspension", "Transmission"}},
		}},
		{Name: "Mitsubishi", Models: []Model{
			{Name: "Lancer", Parts: []string{"Engine", "Brakes"}},
			{Name: "Outlander", Parts: []string{"Engine", "Transmission"}},
		}},
		{Name: "Suzuki", Models: []Model{
			{Name: "Swift", Parts: []string{"Engine", "Brakes"}},
			{Name: "Vitara", Parts: []string{"Engine", "Suspension"}},
		}},
		{Name: "BMW", Models: []Model{
			{Name: "3 Series", Parts: []string{"Engine", "Brakes", "Suspension"}},
			{Name: "X5", Parts: []string{"Engine", "Transmission"}},
		}},
	}
}

// DefaultYears возвращает модельные годы 2012..2025.
func DefaultYears() []int {
	years := make([]int, 0, 14)
	for y := 2012; y < 2012+14; y++ {
		years = append(years, y)
	}
	return years
}

const defaultImage = "images/default.png"

var partImages = map[string]string{
	"Engine":       "images/parts/engine.jpg",
	"Brakes":       "images/parts/brakes.jpg",
	"Suspension":   "images/parts/suspension.jpg",
	"Transmission": "images/parts/transmission.jpg",
	"Battery":      "images/parts/battery.jpg",
}

// ImageFor возвращает картинку категории запчасти.
func ImageFor(part string) string {
	if img, ok := partImages[part]; ok {
		return img
	}
	return defaultImage
}
