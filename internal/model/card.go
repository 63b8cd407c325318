package model

// Card is a credit card whose closing day decides statement competency.
type Card struct {
	ID         string
	Name       string
	ClosingDay int // 1-31
}
