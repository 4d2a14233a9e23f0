package fields

// Kind is the numeric type a scalar variable is stored as.
type Kind int

const (
	Real Kind = iota
	Int
)

func (k Kind) String() string {
	if k == Int {
		return "integer"
	}
	return "real"
}

// Variable is one known top-level simulation value.
type Variable struct {
	Name  string
	Label string
	Kind  Kind
}

// legacyAliases maps a canonical variable name to the misspelling some saves use.
var legacyAliases = map[string]string{
	"warheadsQuantity": "warheadQuantity",
}

var catalog = []Variable{
	{"population", "Population (millions)", Int},
	{"defcon", "DEFCON Level", Int},
	{"politicalPower", "Political Power", Real},
	{"reserve", "Reserve", Int},
	{"refinancingRate", "Refinancing Rate (%)", Int},
	{"export", "Export (billion rubles)", Real},
	{"healthCare", "Healthcare Funding", Real},
	{"education", "Education Funding", Real},
	{"ecology", "Ecology Funding", Real},
	{"militaryStaffLoyalty", "Military Leadership Loyalty", Real},
	{"armyStaffLoyalty", "Army Loyalty", Real},
	{"specialServicesLoyalty", "Special Services Loyalty", Real},
	{"specialServices", "Special Services Funding", Real},
	{"radicalsPower", "Radicals Power", Real},
	{"freedomLevel", "Civil Liberties", Real},
	{"liberalizationLevel", "Liberalization", Real},
	{"educationAccess", "Education Access", Real},
	{"healthCareAccess", "Health Care Access", Real},
	{"selfFulfillment", "Self Fulfillment", Real},
	{"luxuryGoodsLevel", "Luxury Goods Access", Real},
	{"orderLevel", "Law and Order Level", Real},
	{"firstNeedsGoods", "Essential Goods Access", Real},
	{"housingLevel", "Housing Level", Real},
	{"employmentLevel", "Employment Level", Real},
	{"agroEffectiveness", "Agro Effectiveness", Real},
	{"servicesEffectiveness", "Services Effectiveness", Real},
	{"lightIndustryEffectiveness", "Light Industry Power", Real},
	{"heavyIndustryEffectiveness", "Heavy Industry Power", Real},
	{"armyIndustryEffectiveness", "Military Industrial Complex Power", Real},
	{"intelligentsiaLoyalty", "Intelligentsia Loyalty", Real},
	{"spiritualContentment", "Spiritual Contentment", Real},
	{"unityLevel", "Consensus Unity", Real},
	{"forgeryLevel", "Forgery", Real},
	{"armyQuantityLevel", "Army Quantity", Real},
	{"warheadsQuantity", "Warhead Quantity", Real},
	{"combatability", "Combatability", Real},
	{"competitivenessLevel", "Competitiveness", Real},
	{"corruptionLevel", "Corruption", Real},
	{"americanArmyLevel", "American Army Combat Readiness", Real},
	{"americanEconomyLevel", "American Economy Stability", Real},
	{"americanPopularHappiness", "American Popular Satisfaction", Real},
	{"priceIndex", "Inflation", Real},
	{"usLoan", "US Loan", Int},
	{"fraLoan", "France Loan", Int},
	{"imfLoan", "IMF Loan", Int},
}

var catalogIndex = func() map[string]int {
	idx := make(map[string]int, len(catalog))
	for i, v := range catalog {
		idx[v.Name] = i
	}
	return idx
}()

// Variables returns the known scalar variables in display order.
func Variables() []Variable {
	out := make([]Variable, len(catalog))
	copy(out, catalog)
	return out
}

// LookupVariable finds a variable by its blob key. Legacy aliases resolve to the canonical entry.
func LookupVariable(name string) (Variable, bool) {
	if i, ok := catalogIndex[name]; ok {
		return catalog[i], true
	}
	for canonical, alias := range legacyAliases {
		if alias == name {
			return catalog[catalogIndex[canonical]], true
		}
	}
	return Variable{}, false
}

func variableNames() []string {
	names := make([]string, len(catalog))
	for i, v := range catalog {
		names[i] = v.Name
	}
	return names
}
