package toggle

import (
	"testing"

	"github.com/harrison/vtoggle/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		found    []string
		required string
		policy   models.MatchPolicy
		want     string
		wantOK   bool
	}{
		{name: "exact hit", found: []string{"1.0.0", "2.0.0"}, required: "2.0.0", policy: models.PolicyExact, want: "2.0.0", wantOK: true},
		{name: "exact miss", found: []string{"1.0.0", "2.0.0"}, required: "1.5.0", policy: models.PolicyExact},
		{name: "exact is textual", found: []string{"01.0.0"}, required: "1.0.0", policy: models.PolicyExact},
		{name: "nearest verbatim", found: []string{"1.0.0", "2.0.0"}, required: "2.0.0", policy: models.PolicyNearestLowerOrEqual, want: "2.0.0", wantOK: true},
		{name: "nearest lower", found: []string{"1.0.0", "2.0.0"}, required: "1.5.0", policy: models.PolicyNearestLowerOrEqual, want: "1.0.0", wantOK: true},
		{name: "nearest picks greatest lower", found: []string{"1.2.0", "0.9.0", "1.10.0", "3.0.0"}, required: "2.0.0", policy: models.PolicyNearestLowerOrEqual, want: "1.10.0", wantOK: true},
		{name: "nearest none low enough", found: []string{"1.0.0", "2.0.0"}, required: "0.5.0", policy: models.PolicyNearestLowerOrEqual},
		{name: "nearest numeric equal keeps first spelling", found: []string{"01.0.0", "1.0.0"}, required: "1.5.0", policy: models.PolicyNearestLowerOrEqual, want: "01.0.0", wantOK: true},
		{name: "nothing found", found: nil, required: "1.0.0", policy: models.PolicyNearestLowerOrEqual},
		{name: "unparseable requirement", found: []string{"1.0.0"}, required: "latest", policy: models.PolicyNearestLowerOrEqual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.found, tt.required, tt.policy)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The surviving version under the nearest policy is max{v | v <= required}.
func TestResolve_NearestIsMaxLowerOrEqual(t *testing.T) {
	found := []string{"0.1.0", "0.2.5", "1.0.0", "1.0.1", "1.3.0", "2.0.0", "2.4.9", "10.0.0"}
	expect := map[string]string{
		"0.0.9":  "",
		"0.1.0":  "0.1.0",
		"0.9.9":  "0.2.5",
		"1.0.0":  "1.0.0",
		"1.2.9":  "1.0.1",
		"2.4.8":  "2.0.0",
		"9.9.9":  "2.4.9",
		"99.0.0": "10.0.0",
	}

	for required, want := range expect {
		got, ok := Resolve(found, required, models.PolicyNearestLowerOrEqual)
		assert.Equal(t, want != "", ok, required)
		assert.Equal(t, want, got, required)
	}
}
