package child

import (
	"database/sql/driver"
	"encoding/json"
	"siat-api/internal/util"
	"time"

	"gorm.io/datatypes"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

// Day is a date column that travels as "YYYY-MM-DD" in JSON. The zero Day is
// stored as NULL.
type Day time.Time

func (d Day) Value() (driver.Value, error) {
	if time.Time(d).IsZero() {
		return nil, nil
	}
	return datatypes.Date(d).Value()
}

func (d *Day) Scan(value interface{}) error {
	var date datatypes.Date
	if err := date.Scan(value); err != nil {
		return err
	}
	*d = Day(date)
	return nil
}

func (Day) GormDataType() string { return "date" }

func (d Day) String() string { return util.FormatDay(time.Time(d).UTC()) }

func (d Day) MarshalJSON() ([]byte, error) {
	if time.Time(d).IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Day{}
		return nil
	}
	t, err := util.ParseDay(*s)
	if err != nil {
		return err
	}
	*d = Day(t)
	return nil
}

type Child struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"nome"`
	BirthDate   Day       `gorm:"not null" json:"data_nascimento"`
	CPF         *string   `gorm:"size:14" json:"cpf"`
	Gender      string    `gorm:"size:30;not null" json:"genero"`
	Comorbidity string    `gorm:"type:text;not null" json:"comorbidade"`
	Education   string    `gorm:"size:100;not null" json:"escolaridade"`
	Status      string    `gorm:"size:20;not null;default:active;index" json:"status"`
	Notes       *string   `gorm:"type:text" json:"observacoes_crianca"`
	PhotoRef    *string   `gorm:"size:512" json:"foto_crianca"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Child) TableName() string {
	return "children"
}

type Address struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ChildID      uint      `gorm:"not null;uniqueIndex" json:"crianca_id"`
	UF           string    `gorm:"size:2" json:"uf"`
	City         string    `gorm:"size:120" json:"cidade"`
	Neighborhood string    `gorm:"size:120" json:"bairro"`
	Street       string    `gorm:"size:255" json:"rua"`
	Number       *string   `gorm:"size:20" json:"numero"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Address) TableName() string {
	return "addresses"
}

type Guardian struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ChildID       uint      `gorm:"not null;uniqueIndex" json:"crianca_id"`
	Name          string    `gorm:"size:255" json:"nome_responsavel"`
	BirthDate     Day       `json:"data_nascimento_responsavel"`
	Occupation    string    `gorm:"size:120" json:"ocupacao"`
	MaritalStatus string    `gorm:"size:40" json:"estado_civil_responsavel"`
	Gender        string    `gorm:"size:30" json:"genero_responsavel"`
	Phone         string    `gorm:"size:30" json:"telefone_responsavel"`
	Email         string    `gorm:"size:255" json:"email_responsavel"`
	PhotoRef      *string   `gorm:"size:512" json:"foto_responsavel"`
	Notes         *string   `gorm:"type:text" json:"observacao_responsavel"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Guardian) TableName() string {
	return "guardians"
}

// RegistrationInput carries the registration form. Keys match the web
// client's multipart field names.
type RegistrationInput struct {
	Name        string `form:"nome" json:"nome"`
	BirthDate   string `form:"data_nascimento" json:"data_nascimento"`
	CPF         string `form:"cpf" json:"cpf"`
	Gender      string `form:"genero" json:"genero"`
	Comorbidity string `form:"comorbidade" json:"comorbidade"`
	Education   string `form:"escolaridade" json:"escolaridade"`
	Status      string `form:"status" json:"status"`
	ChildNotes  string `form:"observacoes_crianca" json:"observacoes_crianca"`

	UF           string `form:"uf" json:"uf"`
	City         string `form:"cidade" json:"cidade"`
	Neighborhood string `form:"bairro" json:"bairro"`
	Street       string `form:"rua" json:"rua"`
	Number       string `form:"numero" json:"numero"`

	GuardianName          string `form:"nome_responsavel" json:"nome_responsavel"`
	GuardianBirthDate     string `form:"data_nascimento_responsavel" json:"data_nascimento_responsavel"`
	GuardianOccupation    string `form:"ocupacao" json:"ocupacao"`
	GuardianMaritalStatus string `form:"estado_civil_responsavel" json:"estado_civil_responsavel"`
	GuardianGender        string `form:"genero_responsavel" json:"genero_responsavel"`
	GuardianPhone         string `form:"telefone_responsavel" json:"telefone_responsavel"`
	GuardianEmail         string `form:"email_responsavel" json:"email_responsavel"`
	GuardianNotes         string `form:"observacao_responsavel" json:"observacao_responsavel"`
}

// Registration is the whole aggregate. Address and Guardian are nil when the
// row is missing.
type Registration struct {
	Child    Child     `json:"child"`
	Address  *Address  `json:"address"`
	Guardian *Guardian `json:"guardian"`
}

type Summary struct {
	ID           uint    `json:"id"`
	Name         string  `json:"nome"`
	RegisteredOn string  `json:"data_cadastro"`
	Status       string  `json:"status"`
	PhotoRef     *string `json:"foto_crianca"`
}
