package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", "9782123456789", "9782123456789", true},
		{"scientific notation", "9.782123456789E+12", "9782123456789", true},
		{"lowercase exponent", "9.782123456789e+12", "9782123456789", true},
		{"trailing .0", "9782123456789.0", "9782123456789", true},
		{"hyphenated", "978-2-12-345678-9", "9782123456789", true},
		{"surrounding spaces", "  9782123456789 ", "9782123456789", true},
		{"too short", "978212345678", "", false},
		{"too long", "97821234567890", "", false},
		{"empty", "", "", false},
		{"nan", "nan", "", false},
		{"letters only", "ISBN", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Identifier(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"iso", "2024-03-15", "20240315", true},
		{"day first slash", "15/03/2024", "20240315", true},
		{"year first slash", "2024/03/15", "20240315", true},
		{"day first dash", "15-03-2024", "20240315", true},
		{"compact", "20240315", "20240315", true},
		{"short day first", "5/3/2024", "20240305", true},
		{"dotted", "05.03.2024", "20240305", true},
		{"timestamp", "2024-03-15 00:00:00", "20240315", true},
		{"excel serial", "45366", "20240315", true},
		{"excel serial with time", "45366.5", "20240315", true},
		{"french month", "15 mars 2024", "20240315", true},
		{"french month with accent", "1er février 2024", "20240201", true},
		{"english month", "15 March 2024", "20240315", true},
		{"month only", "mars 2024", "20240301", true},
		{"year only", "2024", "20240101", true},
		{"impossible day", "31 février 2024", "", false},
		{"garbage", "bientôt", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBool(t *testing.T) {
	for _, in := range []string{"1", "true", "TRUE", "yes", "Y", "vrai", "Oui", "x", "X", "2", "1.0", "-1"} {
		assert.True(t, Bool(in), in)
	}
	for _, in := range []string{"", "0", "0.0", "false", "non", "no", "n", "nan", "inf", "Infinity", "-inf", "+Inf", "peut-être"} {
		assert.False(t, Bool(in), in)
	}
}

func TestContributors(t *testing.T) {
	got := Contributors("Martin, Paul, B01; Dupont, Claire, A01")
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].Sequence)
	assert.Equal(t, "Martin, Paul", got[0].Name)
	assert.Equal(t, []string{"B01"}, got[0].Roles)

	assert.Equal(t, 2, got[1].Sequence)
	assert.Equal(t, "Dupont, Claire", got[1].Name)
	assert.Equal(t, []string{"A01"}, got[1].Roles)
}

func TestContributorsRoles(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantName  string
		wantRoles []string
	}{
		{"no role", "Martin, Paul", "Martin, Paul", []string{"A01"}},
		{"single name", "Collectif", "Collectif", []string{"A01"}},
		{"plus joined", "Martin, Paul, A01+B06", "Martin, Paul", []string{"A01", "B06"}},
		{"slash joined", "Martin, Paul, B01/B06", "Martin, Paul", []string{"B01", "B06"}},
		{"space joined", "Martin, Paul, B01 B06", "Martin, Paul", []string{"B01", "B06"}},
		{"four parts", "de la Tour, Jean, Jr, B01", "de la Tour, Jean, Jr", []string{"B01"}},
		{"empty role", "Martin, Paul, ", "Martin, Paul", []string{"A01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Contributors(tt.in)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantName, got[0].Name)
			assert.Equal(t, tt.wantRoles, got[0].Roles)
		})
	}
}

func TestContributorsSkipsEmptyEntries(t *testing.T) {
	got := Contributors(";Martin, Paul;; ")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Sequence)
	assert.Empty(t, Contributors(""))
	assert.Empty(t, Contributors("nan"))
}

func TestCombineContributors(t *testing.T) {
	t.Run("primary wins", func(t *testing.T) {
		got := CombineContributors("Martin, Paul, A01", "Dupont, Claire, B01")
		require.Len(t, got, 1)
		assert.Equal(t, "Martin, Paul", got[0].Name)
	})

	t.Run("fallbacks aggregated in order", func(t *testing.T) {
		got := CombineContributors("", "Martin, Paul, A01", "", "Dupont, Claire, B06; Durand, Léa, B06")
		require.Len(t, got, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{got[0].Sequence, got[1].Sequence, got[2].Sequence})
		assert.Equal(t, "Durand, Léa", got[2].Name)
	})
}

func TestAvailability(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"à paraître", AvailabilityNotYetAvailable},
		{"A PARAITRE", AvailabilityNotYetAvailable},
		{"forthcoming", AvailabilityNotYetAvailable},
		{"", AvailabilityAvailable},
		{"   ", AvailabilityAvailable},
		{"en stock", AvailabilityInStock},
		{"sur commande", AvailabilityToOrder},
		{"en stock, sur commande", AvailabilityInStock},
		{"POD", AvailabilityPrintOnDemand},
		{"impression à la demande", AvailabilityPrintOnDemand},
		{"épuisé", AvailabilityNoLongerSupplied},
		{"Epuise", AvailabilityNoLongerSupplied},
		{"plus fourni", AvailabilityNoLongerSupplied},
		{"retiré de la vente", AvailabilityWithdrawn},
		{"indisponible", AvailabilityUnavailable},
		{"???", AvailabilityUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Availability(tt.in))
		})
	}
}

func TestMeasure(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"15", "15", true},
		{"15.0", "15", true},
		{"15.50", "15.5", true},
		{"15,5", "15.5", true},
		{"450", "450", true},
		{"0", "", false},
		{"-2", "", false},
		{"abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := Measure(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPages(t *testing.T) {
	n, ok := Pages("312")
	assert.True(t, ok)
	assert.Equal(t, 312, n)

	n, ok = Pages("312.0")
	assert.True(t, ok)
	assert.Equal(t, 312, n)

	_, ok = Pages("0")
	assert.False(t, ok)
	_, ok = Pages("n/a")
	assert.False(t, ok)
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"dot decimal", "24.90", "24.9", true},
		{"comma decimal", "24,90", "24.9", true},
		{"integer", "20", "20", true},
		{"nbsp thousands", "1 234,50", "1234.5", true},
		{"euro sign", "19,00 €", "19", true},
		{"currency word", "19.99 EUR", "19.99", true},
		{"rounded to cents", "9.999", "10", true},
		{"zero", "0", "", false},
		{"sub-cent", "0.001", "", false},
		{"sub-cent comma", "0,004", "", false},
		{"half cent rounds up", "0.006", "0.01", true},
		{"negative", "-5", "", false},
		{"text", "à venir", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Price(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, FormatPrice(v))
			}
		})
	}
}

func TestCoverURL(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"https://example.org/covers/9782123456789.jpg", true},
		{"http://example.org/a.png", true},
		{"HTTPS://example.org/a.png", true},
		{"https://example.org/my cover.jpg", false},
		{"ftp://example.org/a.png", false},
		{"covers/a.png", false},
		{"https:///a.png", false},
		{"", false},
	}

	for _, tt := range tests {
		_, ok := CoverURL(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestCodesAndText(t *testing.T) {
	assert.Equal(t, []string{"B206", "B221", "A103"}, Codes("B206; B221,A103"))
	assert.Nil(t, Codes(""))

	s, ok := Text("  Le titre  ")
	assert.True(t, ok)
	assert.Equal(t, "Le titre", s)

	_, ok = Text("NaN")
	assert.False(t, ok)

	s, ok = FirstText("", "nan", "b")
	assert.True(t, ok)
	assert.Equal(t, "b", s)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "epuise", Fold("Épuisé"))
	assert.Equal(t, "a paraitre", Fold(" À paraître "))
	assert.Equal(t, "cle", Fold("Clé"))
}
