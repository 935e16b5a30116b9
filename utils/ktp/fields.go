package ktp

import "strings"

// Field identifiers.
const (
	FieldProvince      = "province"
	FieldCity          = "city"
	FieldNIK           = "nik"
	FieldName          = "name"
	FieldBirthPlace    = "birth_place"
	FieldBirthDate     = "birth_date"
	FieldGender        = "gender"
	FieldAddress       = "address"
	FieldRTRW          = "rt_rw"
	FieldKelurahanDesa = "kelurahan_desa"
	FieldKecamatan     = "kecamatan"
	FieldReligion      = "religion"
	FieldMaritalStatus = "marital_status"
	FieldBloodType     = "blood_type"
	FieldOccupation    = "occupation"
	FieldNationality   = "nationality"
	FieldValidUntil    = "valid_until"
)

// Validator shapes a raw candidate into a field value, or rejects it.
type Validator func(value string) (string, bool)

// Fallback recovers a value from the whole label line when the inline
// value fails validation.
type Fallback func(line, value string) (string, bool)

// FieldSpec is one registry entry: how a field's label looks and how its
// values are accepted and replaced.
type FieldSpec struct {
	Field    string
	Variants [][]string
	Validate Validator
	Replace  ReplacePolicy
	Fallback Fallback

	// onLabel runs after the field's label matched on line idx.
	onLabel func(sc *scanner, idx int)
}

func variants(labels ...string) [][]string {
	out := make([][]string, len(labels))
	for i, l := range labels {
		out[i] = strings.Fields(l)
	}
	return out
}

var birthVariants = variants(
	"TEMPAT TGL LAHIR",
	"TEMPAT LAHIR",
	"TEMPATL LAHIR",
	"TEMPALTGL LAHIR",
	"TEMPATTGL LAHIR",
	"TEMPAT/TGL LAHIR",
)

func ktpFields() []*FieldSpec {
	return []*FieldSpec{
		{
			Field:    FieldProvince,
			Variants: variants("PROVINSI", "PROVINSI."),
			Validate: validateArea,
			Fallback: rawValue,
			onLabel:  func(sc *scanner, idx int) { sc.st.provinceLine = idx },
		},
		{
			Field:    FieldCity,
			Variants: variants("KABUPATEN", "KOTA", "KOTAMADYA"),
			Validate: validateArea,
			Fallback: rawValue,
		},
		{
			Field:    FieldNIK,
			Variants: variants("NIK"),
			Validate: validateNIK,
			// Searches nameLookaheadLines lines, never the full pending window.
			onLabel:  (*scanner).nameLookahead,
		},
		{
			Field:    FieldName,
			Variants: variants("NAMA"),
			Validate: validateName,
			Replace:  replaceName,
		},
		{
			Field:    FieldBirthPlace,
			Variants: birthVariants,
			Validate: validateBirthPlace,
		},
		{
			Field:    FieldBirthDate,
			Variants: birthVariants,
			Validate: validateBirthDate,
		},
		{
			Field:    FieldGender,
			Variants: variants("JENIS KELAMIN", "JNS KELAMIN", "JENIS KEL"),
			Validate: validateGender,
		},
		{
			Field:    FieldAddress,
			Variants: variants("ALAMAT", "ALMAT", "ALAMAT", "ALAMAT", "ALANAT", "ATOMAT", "ALAMAP"),
			Validate: validateAddress,
			Replace:  replaceAddress,
		},
		{
			Field:    FieldRTRW,
			Variants: variants("RT/RW", "RT RW", "RTRW", "RT TRW"),
			Validate: validateRTRW,
			Fallback: firstTwoNumbers,
		},
		{
			Field:    FieldKelurahanDesa,
			Variants: variants("KEL DESA", "KELURAHAN", "DESA", "KELDESA", "KEL/ DESA", "KEL/DEEA", "KEL/DESA"),
			Validate: validateRegion,
			Replace:  replaceRegion,
		},
		{
			Field:    FieldKecamatan,
			Variants: variants("KECAMATAN", "KEC"),
			Validate: validateRegion,
			Replace:  replaceRegion,
		},
		{
			Field:    FieldReligion,
			Variants: variants("AGAMA", "AGAM"),
			Validate: validateReligion,
		},
		{
			Field:    FieldMaritalStatus,
			Variants: variants("STATUS PERKAWIN", "STATUS KAWIN", "STATUS PERK"),
			Validate: validateMarital,
		},
	}
}

func ktpExtendedFields() []*FieldSpec {
	return append(ktpFields(),
		&FieldSpec{
			Field:    FieldBloodType,
			Variants: variants("GOL DARAH", "GOLDARAH"),
			Validate: validateBloodType,
		},
		&FieldSpec{
			Field:    FieldOccupation,
			Variants: variants("PEKERJAAN", "POKERJAAN"),
			Validate: validateOccupation,
		},
		&FieldSpec{
			Field:    FieldNationality,
			Variants: variants("KEWARGANEGARAAN", "KEWARGA NEGARAAN"),
			Validate: validateNationality,
		},
		&FieldSpec{
			Field:    FieldValidUntil,
			Variants: variants("BERLAKU HINGGA", "BERLAKU"),
			Validate: validateValidUntil,
		},
	)
}

// rawValue keeps an inline value that failed validation as-is.
func rawValue(_, value string) (string, bool) {
	return value, value != ""
}

// firstTwoNumbers reads an RT/RW pair written without a separator.
func firstTwoNumbers(line, _ string) (string, bool) {
	nums := shortNumber.FindAllString(line, 2)
	if len(nums) < 2 {
		return "", false
	}
	return nums[0] + "/" + nums[1], true
}
