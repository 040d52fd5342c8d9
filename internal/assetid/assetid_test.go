package assetid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetCode(t *testing.T) {
	assert.Equal(t, "LAP", AssetCode("Laptop"))
	assert.Equal(t, "OFF", AssetCode("Office Chair"))
	assert.Equal(t, "MON", AssetCode("monitor 24\""))
	assert.Equal(t, "TV-", AssetCode("TV"))
	assert.Equal(t, "A--", AssetCode("A4"))
	assert.Equal(t, "---", AssetCode("4242"))
	assert.Equal(t, "---", AssetCode(""))
}

func TestFormatSerial(t *testing.T) {
	assert.Equal(t, "007", FormatSerial(7))
	assert.Equal(t, "042", FormatSerial(42))
	assert.Equal(t, "999", FormatSerial(999))
	assert.Equal(t, "1000", FormatSerial(1000))
}

func TestCompose(t *testing.T) {
	id := Compose("2024-25", "Laptop", "Storage Room A", 7)
	assert.Equal(t, "IHUB/2024-25/LAP/STORAGE ROOM A/007", id)
}

func TestCompose_MissingSegmentsRenderPlaceholders(t *testing.T) {
	id := Compose("", "Laptop", "", 1)
	assert.Equal(t, "IHUB/--/LAP/--/001", id)
	assert.Error(t, Validate(id))
}

func TestComposeAuto(t *testing.T) {
	id := ComposeAuto("2024-25", "Laptop", "Storage Room A")
	assert.Equal(t, "IHUB/2024-25/LAP/STORAGE ROOM A/AUTO", id)
	assert.True(t, HasAutoSerial(id))
	assert.NoError(t, Validate(id))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("IHUB/2024-25/LAP/STORAGE ROOM A/007"))
	assert.NoError(t, Validate("IHUB/2024-25/TV-/LAB 2/123"))

	cases := []struct {
		name string
		id   string
	}{
		{"wrong segment count", "IHUB/2024-25/LAP/007"},
		{"wrong prefix", "XHUB/2024-25/LAP/STORE/007"},
		{"placeholder year", "IHUB/--/LAP/STORE/007"},
		{"malformed year", "IHUB/2024/LAP/STORE/007"},
		{"placeholder code", "IHUB/2024-25/--/STORE/007"},
		{"placeholder location", "IHUB/2024-25/LAP/--/007"},
		{"non-numeric serial", "IHUB/2024-25/LAP/STORE/ABC"},
		{"short serial", "IHUB/2024-25/LAP/STORE/07"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, Validate(tc.id))
		})
	}
}

func TestValidate_NamesMissingComponents(t *testing.T) {
	err := Validate("IHUB/--/--/--/007")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "financialYear")
	assert.Contains(t, err.Error(), "assetCode")
	assert.Contains(t, err.Error(), "location")
}

func TestReplaceLocation(t *testing.T) {
	id := "IHUB/2024-25/LAP/STORAGE ROOM A/007"
	updated, err := ReplaceLocation(id, "Lab 2")
	assert.NoError(t, err)
	assert.Equal(t, "IHUB/2024-25/LAP/LAB 2/007", updated)

	// year, code and serial must survive the rewrite
	serial, err := Serial(updated)
	assert.NoError(t, err)
	assert.Equal(t, "007", serial)
}

func TestReplaceLocation_Errors(t *testing.T) {
	_, err := ReplaceLocation("not-an-id", "Lab 2")
	assert.Error(t, err)

	_, err = ReplaceLocation("IHUB/2024-25/LAP/STORE/007", "  ")
	assert.Error(t, err)
}

// A location containing '/' would split into two identifier segments, and the
// placeholder would make the stored ID read as incomplete. Both must be
// refused instead of producing an ID that Validate rejects afterwards.
func TestReplaceLocation_RejectsSegmentBreakingLocations(t *testing.T) {
	id := "IHUB/2024-25/LAP/STORAGE ROOM A/007"

	_, err := ReplaceLocation(id, "Lab/2")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "location")

	_, err = ReplaceLocation(id, "--")
	assert.Error(t, err)
}

func TestValidateLocation(t *testing.T) {
	assert.NoError(t, ValidateLocation("Storage Room A"))
	assert.NoError(t, ValidateLocation("lab 2"))

	assert.Error(t, ValidateLocation(""))
	assert.Error(t, ValidateLocation("   "))
	assert.Error(t, ValidateLocation("--"))
	assert.Error(t, ValidateLocation(" -- "))
	assert.Error(t, ValidateLocation("Room B/2"))
}

func TestValidateFinancialYear(t *testing.T) {
	assert.NoError(t, ValidateFinancialYear("2024-25"))

	assert.Error(t, ValidateFinancialYear("2024"))
	assert.Error(t, ValidateFinancialYear("24-25"))
	assert.Error(t, ValidateFinancialYear("2024/25"))
}
