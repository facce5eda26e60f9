package models

type User struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:30;not null" json:"name"`
	Age  int    `json:"age"`
}
