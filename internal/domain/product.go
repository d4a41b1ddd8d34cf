package domain

import "fmt"

// Product — неизменяемая карточка товара каталога.
type Product struct {
	ID    int
	Brand string
	Model string
	Part  string
	Year  int
	// Name — отображаемое название, производное от остальных полей.
	Name string
	// Price — цена в JMD, целое неотрицательное число.
	Price int64
	Image string
}

// ProductName собирает отображаемое название товара.
func ProductName(brand, model, part string, year int) string {
	return fmt.Sprintf("%s %s - %s (%d)", brand, model, part, year)
}
