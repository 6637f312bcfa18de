package model

// Church is the tenant boundary: every pathway, group, event and
// announcement belongs to exactly one church.
// swagger:model Church
type Church struct {
	BaseModel
	Name    string `gorm:"size:255;not null" json:"name"`
	Slug    string `gorm:"size:100;unique;not null" json:"slug"`
	Address string `gorm:"size:255" json:"address"`
	Active  bool   `gorm:"default:true" json:"active"`
}

func (Church) TableName() string {
	return "churches"
}
