package service

import (
	"strings"

	"github.com/candrapwr/information-extraction/dto"
	"github.com/candrapwr/information-extraction/utils"
	"github.com/candrapwr/information-extraction/utils/ktp"
	"github.com/candrapwr/information-extraction/utils/passport"
)

// ValidateResult reports whether every expected field is present. Passport
// results are checked against the passport fields and anything else against
// the base KTP fields.
func ValidateResult(result utils.Result, docType string) bool {
	if dto.DocumentType(strings.ToLower(docType)) == dto.DocTypePassport {
		return utils.AllPresent(result, passport.Fields)
	}
	return utils.AllPresent(result, ktp.KTP.Keys())
}
