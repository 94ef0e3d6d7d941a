package dbmodels

import "database/sql/driver"

type Lab struct {
	BaseModel
	LabName     string `gorm:"type:varchar(255)"`
	Department  string `gorm:"type:varchar(255)"`
	Location    string `gorm:"type:varchar(255)"`
	Systems     int
	Programmers Programmers `gorm:"type:jsonb"`
}

type Programmer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Programmers []Programmer

func (p Programmers) Value() (driver.Value, error) {
	if p == nil {
		p = Programmers{}
	}
	return jsonValue(p)
}

func (p *Programmers) Scan(value any) error {
	return jsonScan(value, p)
}
