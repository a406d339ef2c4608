package models

// EmployeeLevel groups staff on the profile page.
type EmployeeLevel string

const (
	LevelPimpinan           EmployeeLevel = "PIMPINAN"
	LevelTenagaPendidik     EmployeeLevel = "TENAGA_PENDIDIK"
	LevelTenagaKependidikan EmployeeLevel = "TENAGA_KEPENDIDIKAN"
	LevelTenagaOperasional  EmployeeLevel = "TENAGA_OPERASIONAL"
)

// Valid reports whether l is one of the known levels.
func (l EmployeeLevel) Valid() bool {
	switch l {
	case LevelPimpinan, LevelTenagaPendidik, LevelTenagaKependidikan, LevelTenagaOperasional:
		return true
	}
	return false
}

type EmployeeModel struct {
	Base
	Name     string        `json:"name"      gorm:"not null"`
	Position string        `json:"position"  gorm:"not null"`
	Level    EmployeeLevel `json:"level"     gorm:"size:32;index;not null"`
	ImageURL string        `json:"image_url"`
	Order    int           `json:"order"     gorm:"column:sort_order"`
}

func (EmployeeModel) TableName() string { return "employees" }
