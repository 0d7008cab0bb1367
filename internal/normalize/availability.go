package normalize

import "strings"

// ONIX code list 65 values produced by Availability.
const (
	AvailabilityNotYetAvailable  = "10"
	AvailabilityAvailable        = "20"
	AvailabilityInStock          = "21"
	AvailabilityToOrder          = "22"
	AvailabilityPrintOnDemand    = "23"
	AvailabilityUnavailable      = "40"
	AvailabilityNoLongerSupplied = "43"
	AvailabilityWithdrawn        = "46"
)

type availabilityRule struct {
	fragments []string
	code      string
}

// availabilityRules is evaluated top to bottom and the first rule with a
// matching fragment wins. Labels such as "en stock, sur commande" match
// several rules, so the order is part of the behaviour. Fragments are
// compared against the folded label (lowercase, no accents).
var availabilityRules = []availabilityRule{
	{[]string{"para", "forthcoming"}, AvailabilityNotYetAvailable},
	{[]string{"stock"}, AvailabilityInStock},
	{[]string{"commande"}, AvailabilityToOrder},
	{[]string{"pod", "impression"}, AvailabilityPrintOnDemand},
	{[]string{"epuis", "plus fourni"}, AvailabilityNoLongerSupplied},
	{[]string{"retir"}, AvailabilityWithdrawn},
	{[]string{"indis"}, AvailabilityUnavailable},
}

// Availability maps a free-text availability label to a code. An empty
// label means available; an unrecognized one means unavailable.
func Availability(label string) string {
	s, ok := Text(label)
	if !ok {
		return AvailabilityAvailable
	}

	folded := Fold(s)
	for _, rule := range availabilityRules {
		for _, f := range rule.fragments {
			if strings.Contains(folded, f) {
				return rule.code
			}
		}
	}
	return AvailabilityUnavailable
}
