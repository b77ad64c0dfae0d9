package transform

import (
	"sort"
	"strings"
)

// stateNames maps upper-cased raw state names to their canonical display name.
var stateNames = map[string]string{
	"ANDHRA PRADESH":              "Andhra Pradesh",
	"ARUNACHAL PRADESH":           "Arunachal Pradesh",
	"ASSAM":                       "Assam",
	"BIHAR":                       "Bihar",
	"CHHATTISGARH":                "Chhattisgarh",
	"GOA":                         "Goa",
	"GUJARAT":                     "Gujarat",
	"HARYANA":                     "Haryana",
	"HIMACHAL PRADESH":            "Himachal Pradesh",
	"JAMMU AND KASHMIR":           "Jammu & Kashmir",
	"JHARKHAND":                   "Jharkhand",
	"KARNATAKA":                   "Karnataka",
	"KERALA":                      "Kerala",
	"MADHYA PRADESH":              "Madhya Pradesh",
	"MAHARASHTRA":                 "Maharashtra",
	"MANIPUR":                     "Manipur",
	"MEGHALAYA":                   "Meghalaya",
	"MIZORAM":                     "Mizoram",
	"NAGALAND":                    "Nagaland",
	"ODISHA":                      "Odisha",
	"ORISSA":                      "Odisha",
	"PUNJAB":                      "Punjab",
	"RAJASTHAN":                   "Rajasthan",
	"SIKKIM":                      "Sikkim",
	"TAMIL NADU":                  "Tamil Nadu",
	"TRIPURA":                     "Tripura",
	"UTTAR PRADESH":               "Uttar Pradesh",
	"UTTARAKHAND":                 "Uttarakhand",
	"WEST BENGAL":                 "West Bengal",
	"ANDAMAN AND NICOBAR ISLANDS": "Andaman & Nicobar",
	"DADRA AND NAGAR HAVELI":      "Dadra & Nagar Haveli",
	"DAMAN AND DIU":               "Daman & Diu",
	"DELHI":                       "Delhi",
	"LAKSHADWEEP":                 "Lakshadweep",
	"PONDICHERRY":                 "Puducherry",
	"CHANDIGARH":                  "Chandigarh",
	"TELANGANA":                   "Telangana",
}

// CanonicalState returns the canonical name for raw. Unknown names come back
// trimmed but otherwise untouched.
func CanonicalState(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if name, ok := stateNames[strings.ToUpper(trimmed)]; ok {
		return name
	}
	return trimmed
}

// IsCanonicalState reports whether name is one of the canonical names.
func IsCanonicalState(name string) bool {
	for _, v := range stateNames {
		if v == name {
			return true
		}
	}
	return false
}

// CanonicalStates lists the distinct canonical names in sorted order.
func CanonicalStates() []string {
	seen := make(map[string]struct{}, len(stateNames))
	out := make([]string, 0, len(stateNames))
	for _, v := range stateNames {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
