package child

import (
	"siat-api/internal/apperr"
	"siat-api/internal/lookup"
	"siat-api/internal/util"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

var statusAliases = map[string]string{
	"":          StatusActive,
	"active":    StatusActive,
	"ativo":     StatusActive,
	"inactive":  StatusInactive,
	"inativo":   StatusInactive,
	"archived":  StatusArchived,
	"arquivado": StatusArchived,
}

const cpfPattern = `^[0-9]{3}\.?[0-9]{3}\.?[0-9]{3}-?[0-9]{2}$`

// build validates the form and returns the three rows, without ids or photos.
func build(in RegistrationInput) (Child, Address, Guardian, error) {
	var missing []string
	required := []struct{ field, value string }{
		{"nome", in.Name},
		{"data_nascimento", in.BirthDate},
		{"genero", in.Gender},
		{"escolaridade", in.Education},
		{"comorbidade", in.Comorbidity},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return Child{}, Address{}, Guardian{}, apperr.Validation("required fields: %s", strings.Join(missing, ", "))
	}

	birth, err := util.ParseDay(in.BirthDate)
	if err != nil {
		return Child{}, Address{}, Guardian{}, apperr.Validation("invalid data_nascimento %q", in.BirthDate)
	}
	if birth.After(util.DateOnly(time.Now())) {
		return Child{}, Address{}, Guardian{}, apperr.Validation("data_nascimento is in the future")
	}

	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(in.Status))]
	if !ok {
		return Child{}, Address{}, Guardian{}, apperr.Validation("unknown status %q", in.Status)
	}

	cpf := optional(in.CPF)
	if cpf != nil && !govalidator.Matches(*cpf, cpfPattern) {
		return Child{}, Address{}, Guardian{}, apperr.Validation("invalid cpf")
	}

	uf := strings.ToUpper(strings.TrimSpace(in.UF))
	if uf != "" && !govalidator.IsIn(uf, lookup.StateCodes()...) {
		return Child{}, Address{}, Guardian{}, apperr.Validation("invalid uf %q", in.UF)
	}

	email := strings.TrimSpace(in.GuardianEmail)
	if email != "" && (!govalidator.IsEmail(email) || !govalidator.StringLength(email, "3", "255")) {
		return Child{}, Address{}, Guardian{}, apperr.Validation("invalid email_responsavel")
	}

	var guardianBirth Day
	if strings.TrimSpace(in.GuardianBirthDate) != "" {
		t, err := util.ParseDay(in.GuardianBirthDate)
		if err != nil {
			return Child{}, Address{}, Guardian{}, apperr.Validation("invalid data_nascimento_responsavel %q", in.GuardianBirthDate)
		}
		guardianBirth = Day(t)
	}

	child := Child{
		Name:        util.ClampText(in.Name, 255),
		BirthDate:   Day(birth),
		CPF:         cpf,
		Gender:      util.ClampText(in.Gender, 30),
		Comorbidity: strings.TrimSpace(in.Comorbidity),
		Education:   util.ClampText(in.Education, 100),
		Status:      status,
		Notes:       optional(in.ChildNotes),
	}
	address := Address{
		UF:           uf,
		City:         util.ClampText(in.City, 120),
		Neighborhood: util.ClampText(in.Neighborhood, 120),
		Street:       util.ClampText(in.Street, 255),
		Number:       optional(in.Number),
	}
	guardian := Guardian{
		Name:          util.ClampText(in.GuardianName, 255),
		BirthDate:     guardianBirth,
		Occupation:    util.ClampText(in.GuardianOccupation, 120),
		MaritalStatus: util.ClampText(in.GuardianMaritalStatus, 40),
		Gender:        util.ClampText(in.GuardianGender, 30),
		Phone:         util.ClampText(in.GuardianPhone, 30),
		Email:         email,
		Notes:         optional(in.GuardianNotes),
	}
	return child, address, guardian, nil
}

func optional(s string) *string {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	return &v
}
