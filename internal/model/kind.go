package model

import (
	"fmt"
	"strings"
)

// EntityKind selects the field schema a generated record follows.
type EntityKind string

const (
	KindAccount              EntityKind = "Account"
	KindOpportunity          EntityKind = "Opportunity"
	KindMarketingEvent       EntityKind = "MarketingEvent"
	KindFinancialTransaction EntityKind = "FinancialTransaction"
)

// Kinds lists every supported entity kind in a stable order.
var Kinds = []EntityKind{KindAccount, KindOpportunity, KindMarketingEvent, KindFinancialTransaction}

// systems maps each kind to the source-system slug used by the generation
// form and in output file names.
var systems = map[EntityKind]string{
	KindAccount:              "salesforce",
	KindOpportunity:          "salesforce_opportunities",
	KindMarketingEvent:       "sfmc",
	KindFinancialTransaction: "netsuite",
}

// System returns the source-system slug for the kind.
func (k EntityKind) System() string {
	return systems[k]
}

// Valid reports whether k is one of the supported kinds.
func (k EntityKind) Valid() bool {
	_, ok := systems[k]
	return ok
}

// ParseKind accepts either a kind name ("Account") or a system slug
// ("salesforce"), case-insensitively.
func ParseKind(s string) (EntityKind, error) {
	s = strings.TrimSpace(s)
	for _, k := range Kinds {
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, k.System()) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
