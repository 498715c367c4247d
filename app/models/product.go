package models

// Product is a catalogue entry. Price is in BRL.
type Product struct {
	ID    int     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name  string  `gorm:"size:255;not null"              json:"name"`
	Price float64 `gorm:"not null;default:0"             json:"price"`
}
