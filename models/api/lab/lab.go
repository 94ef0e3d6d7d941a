package labapimodels

import (
	apimodels "labstock-backend/models/api"
	dbmodels "labstock-backend/models/db"
	"net/mail"
	"strings"

	"github.com/pkg/errors"
)

type ProgrammerData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LabData struct {
	LabName     string           `json:"labName"`
	Department  string           `json:"department"`
	Location    string           `json:"location"`
	Systems     int              `json:"systems"`
	Programmers []ProgrammerData `json:"programmers"`
}

func (l LabData) Validate() error {
	if strings.TrimSpace(l.LabName) == "" {
		return errors.New("lab name is required")
	}
	if l.Systems < 0 {
		return errors.New("systems count cannot be negative")
	}
	for _, p := range l.Programmers {
		if strings.TrimSpace(p.Name) == "" {
			return errors.New("programmer name is required")
		}
		if p.Email != "" {
			if _, err := mail.ParseAddress(p.Email); err != nil {
				return errors.Errorf("programmer email %q is invalid", p.Email)
			}
		}
	}
	return nil
}

func (l LabData) GetProgrammers() dbmodels.Programmers {
	result := make(dbmodels.Programmers, 0, len(l.Programmers))
	for _, p := range l.Programmers {
		result = append(result, dbmodels.Programmer{Name: p.Name, Email: p.Email})
	}
	return result
}

type LabView struct {
	LabData
	ID string `json:"id"`
}

func LabConvert(rec dbmodels.Lab) LabView {
	programmers := make([]ProgrammerData, 0, len(rec.Programmers))
	for _, p := range rec.Programmers {
		programmers = append(programmers, ProgrammerData{Name: p.Name, Email: p.Email})
	}
	return LabView{
		LabData: LabData{
			LabName:     rec.LabName,
			Department:  rec.Department,
			Location:    rec.Location,
			Systems:     rec.Systems,
			Programmers: programmers,
		},
		ID: rec.ID,
	}
}

type LabFilter struct {
	apimodels.Pagination
	Search string `json:"search"`
}
