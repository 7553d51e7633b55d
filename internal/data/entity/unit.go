package entity

type Unit struct {
	Base
	Name         string  `db:"name"`
	Address      string  `db:"address"`
	MonthlyPrice float64 `db:"monthly_price"`
	IsActive     bool    `db:"is_active"`
}
