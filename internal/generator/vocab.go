package generator

import "go-bi-stack/internal/model"

// ------------------- Vocabularies -------------------

var (
	accountTypes = []string{"Customer", "Prospect", "Partner", "Competitor"}
	industries   = []string{"Technology", "Healthcare", "Finance", "Manufacturing", "Retail"}

	stages = []string{
		"Prospecting", "Qualification", "Needs Analysis", "Value Proposition",
		"Id. Decision Makers", "Perception Analysis", "Proposal/Price Quote",
		"Negotiation/Review", "Closed Won", "Closed Lost",
	}
	opportunityTypes = []string{
		"New Customer", "Existing Customer - Upgrade",
		"Existing Customer - Replacement", "Existing Customer - Downgrade",
	}
	leadSources = []string{"Web", "Phone Inquiry", "Partner Referral", "Purchased List", "Other"}
	quarters    = []string{"Q1", "Q2", "Q3", "Q4"}

	eventTypes = []string{"Send", "Open", "Click", "Bounce", "Unsubscribe"}

	transactionTypes    = []string{"Sales Order", "Invoice", "Cash Sale", "Credit Memo", "Purchase Order"}
	transactionStatuses = []string{
		"Pending Approval", "Pending Fulfillment", "Partially Fulfilled",
		"Pending Billing", "Billed", "Closed",
	}
	currencies   = []string{"USD", "EUR", "GBP", "CAD"}
	subsidiaries = []string{"US Operations", "EU Operations", "APAC Operations"}
	departments  = []string{"Sales", "Marketing", "Operations", "Finance"}
	locations    = []string{"New York", "London", "Singapore", "Toronto"}
)

// Vocabulary returns the categorical values the factory draws for a field of
// the given kind, or nil when the field is not categorical.
func Vocabulary(kind model.EntityKind, field string) []string {
	switch string(kind) + "." + field {
	case "Account.Type":
		return accountTypes
	case "Account.Industry":
		return industries
	case "Opportunity.StageName":
		return stages
	case "Opportunity.Type":
		return opportunityTypes
	case "Opportunity.LeadSource":
		return leadSources
	case "MarketingEvent.EventType":
		return eventTypes
	case "FinancialTransaction.Type":
		return transactionTypes
	case "FinancialTransaction.Status":
		return transactionStatuses
	case "FinancialTransaction.Currency":
		return currencies
	case "FinancialTransaction.Subsidiary":
		return subsidiaries
	case "FinancialTransaction.Department":
		return departments
	case "FinancialTransaction.Location":
		return locations
	}
	return nil
}
