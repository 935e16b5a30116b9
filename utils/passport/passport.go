package passport

import (
	"strings"

	"github.com/candrapwr/information-extraction/utils"
)

// Passport result fields.
const (
	FieldNumber         = "passport_number"
	FieldName           = "name"
	FieldNationality    = "nationality"
	FieldDateOfBirth    = "date_of_birth"
	FieldGender         = "gender"
	FieldExpirationDate = "expiration_date"
	FieldCountryCode    = "country_code"
)

// Fields lists every passport result field.
var Fields = []string{
	FieldNumber,
	FieldName,
	FieldNationality,
	FieldDateOfBirth,
	FieldGender,
	FieldExpirationDate,
	FieldCountryCode,
}

// Parse maps MRZ reader output onto the passport result.
func Parse(mrz map[string]string) utils.Result {
	data := map[string]string{}
	if len(mrz) > 0 {
		data = map[string]string{
			FieldNumber:         mrz["number"],
			FieldName:           strings.TrimSpace(mrz["names"] + " " + mrz["surname"]),
			FieldNationality:    mrz["nationality"],
			FieldDateOfBirth:    mrz["date_of_birth"],
			FieldGender:         mrz["sex"],
			FieldExpirationDate: mrz["expiration_date"],
			FieldCountryCode:    mrz["country"],
		}
	}
	return utils.NormalizeStrings(data, Fields)
}

// FromText finds the MRZ in OCR text and maps it onto the passport result.
func FromText(text string) utils.Result {
	m, ok := FindMRZ(text)
	if !ok {
		return Parse(nil)
	}
	return Parse(m.Fields())
}
