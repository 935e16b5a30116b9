package ktp

import (
	"strings"
	"testing"

	"github.com/candrapwr/information-extraction/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleKTP = `PROVINSI DKI JAKARTA
KOTA JAKARTA SELATAN
NIK : 3174012345678901
Nama : BUDI SANTOSO
Tempat/Tgl Lahir : JAKARTA, 17-08-1985
Jenis Kelamin : LAKI-LAKI Gol. Darah : O
Alamat : JL MERDEKA NO 10
RT/RW : 001/002
Kel/Desa : CIPETE UTARA
Kecamatan : KEBAYORAN BARU
Agama : ISLAM
Status Perkawinan : KAWIN
Pekerjaan : KARYAWAN SWASTA
Kewarganegaraan : WNI
Berlaku Hingga : SEUMUR HIDUP`

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

func TestExtractFullCard(t *testing.T) {
	got := Extract(sampleKTP, KTP)

	assert.Equal(t, utils.Result{
		"province":       "DKI JAKARTA",
		"city":           "JAKARTA SELATAN",
		"nik":            "3174012345678901",
		"name":           "BUDI SANTOSO",
		"birth_place":    "JAKARTA",
		"birth_date":     "17-08-1985",
		"gender":         "LAKI-LAKI",
		"address":        "JL MERDEKA NO 10",
		"rt_rw":          "001/002",
		"kelurahan_desa": "CIPETE UTARA",
		"kecamatan":      "KEBAYORAN BARU",
		"religion":       "ISLAM",
		"marital_status": "KAWIN",
	}, got)
}

func TestExtractExtendedTemplate(t *testing.T) {
	got := Extract(sampleKTP, KTPExtended)

	assert.Len(t, got, 17)
	assert.Equal(t, "O", got[FieldBloodType])
	assert.Equal(t, "KARYAWAN SWASTA", got[FieldOccupation])
	assert.Equal(t, "WNI", got[FieldNationality])
	assert.Equal(t, "SEUMUR HIDUP", got[FieldValidUntil])
	assert.Equal(t, "BUDI SANTOSO", got[FieldName])
}

func TestExtractEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n\t\n"} {
		got := Extract(text, KTP)
		require.Len(t, got, len(KTP.Keys()))
		for _, key := range KTP.Keys() {
			assert.Equal(t, utils.NotFound, got[key], key)
		}
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	assert.Equal(t, Extract(sampleKTP, KTP), Extract(sampleKTP, KTP))
}

func TestExtractLabelNoise(t *testing.T) {
	assert.Equal(t, "JAWA BARAT", Extract("PROVINSI : JAWA BARAT", KTP)[FieldProvince])
	assert.Equal(t, "JAWA BARAT", Extract("PR0VINSI : JAWA BARAT", KTP)[FieldProvince])
}

func TestExtractMultiTokenBirthLabel(t *testing.T) {
	got := Extract("TEMPAT/TGL LAHIR : JAKARTA, 01-01-1990", KTP)

	assert.Equal(t, "JAKARTA", got[FieldBirthPlace])
	assert.Equal(t, "01-01-1990", got[FieldBirthDate])
}

func TestExtractNIKNameLookahead(t *testing.T) {
	got := Extract(lines(
		"NIK : 1234567890123456",
		"BUDI SANTOSO",
		"JENIS KELAMIN LAKI-LAKI",
	), KTP)

	assert.Equal(t, "1234567890123456", got[FieldNIK])
	assert.Equal(t, "BUDI SANTOSO", got[FieldName])
	assert.Equal(t, "LAKI-LAKI", got[FieldGender])
}

func TestNIKNameLookaheadIsThreeLines(t *testing.T) {
	got := Extract(lines("NIK", "12", "BUDI SANTOSO"), KTP)
	assert.Equal(t, "BUDI SANTOSO", got[FieldName])

	got = Extract(lines("NIK : 1234567890123456", "12345", "67890", "11111", "BUDI SANTOSO"), KTP)
	assert.Equal(t, utils.NotFound, got[FieldName])
}

func TestExtractPendingValueOnNextLine(t *testing.T) {
	got := Extract(lines(
		"PROVINSI",
		"JAWA BARAT",
		"AGAMA",
		": KATOLIK",
	), KTP)

	assert.Equal(t, "JAWA BARAT", got[FieldProvince])
	assert.Equal(t, "KATOLIK", got[FieldReligion])
}

func TestLookaheadWindow(t *testing.T) {
	filler := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = "12345"
		}
		return out
	}

	within := append(append([]string{"KECAMATAN"}, filler(5)...), "CIDENG")
	st := Scan(lines(within...), KTP)
	v, ok := st.Value(FieldKecamatan)
	assert.True(t, ok)
	assert.Equal(t, "CIDENG", v)
	assert.Empty(t, st.Pending())

	beyond := append(append([]string{"KECAMATAN"}, filler(6)...), "CIDENG")
	st = Scan(lines(beyond...), KTP)
	_, ok = st.Value(FieldKecamatan)
	assert.False(t, ok)
	assert.Equal(t, []string{FieldKecamatan}, st.Expired())
	assert.Empty(t, st.Pending())
	assert.Equal(t, utils.NotFound, Extract(lines(beyond...), KTP)[FieldKecamatan])
}

func TestPendingKecamatanSkipsKelurahanValue(t *testing.T) {
	got := Extract(lines(
		"KEL/DESA : CIDENG",
		"KECAMATAN",
		"CIDENG",
		"GAMBIR",
	), KTP)

	assert.Equal(t, "CIDENG", got[FieldKelurahanDesa])
	assert.Equal(t, "GAMBIR", got[FieldKecamatan])
}

func TestNameEqualToCityIsReplaced(t *testing.T) {
	got := Extract(lines(
		"KOTA BANDUNG",
		"NAMA : BANDUNG",
		"SITI AMINAH",
	), KTP)

	assert.Equal(t, "BANDUNG", got[FieldCity])
	assert.Equal(t, "SITI AMINAH", got[FieldName])
}

func TestRecognizersWithoutLabels(t *testing.T) {
	got := Extract(lines(
		"BOGOR, 02-03-1991",
		"JENIS KELAMIN: PEREMPUAN",
		"HINDU",
	), KTP)

	assert.Equal(t, "BOGOR", got[FieldBirthPlace])
	assert.Equal(t, "02-03-1991", got[FieldBirthDate])
	assert.Equal(t, "PEREMPUAN", got[FieldGender])
	assert.Equal(t, "HINDU", got[FieldReligion])
}

func TestRTRWWithoutSeparator(t *testing.T) {
	assert.Equal(t, "003/011", Extract("RT/RW 003 011", KTP)[FieldRTRW])
}

func TestRepairCityAfterProvince(t *testing.T) {
	got := Extract(lines(
		"PROVINSI JAWA TENGAH",
		"SEMARANG",
		"NIK : 3374012345678901",
	), KTP)

	assert.Equal(t, "JAWA TENGAH", got[FieldProvince])
	assert.Equal(t, "SEMARANG", got[FieldCity])
}

func TestRepairAddressAboveRTRW(t *testing.T) {
	got := Extract(lines(
		"JL ANGGREK",
		"RT 004 RW 009",
	), KTP)

	assert.Equal(t, "JL ANGGREK", got[FieldAddress])
}

func TestRepairBirthFromWholeText(t *testing.T) {
	got := Extract(lines(
		"TEMPAT",
		"SURABAYA,",
		"21-04-1979",
	), KTP)

	assert.Equal(t, "SURABAYA", got[FieldBirthPlace])
	assert.Equal(t, "21-04-1979", got[FieldBirthDate])
}
