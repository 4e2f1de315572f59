package generator

import (
	"fmt"
	"io"
	"time"

	"go-bi-stack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	closeHorizon = 365 * 24 * time.Hour

	internalIDMin = 1000
	internalIDMax = 999999

	// maxTransactions is the size of the smaller of the two NetSuite
	// identifier spaces (SO100000-SO999999).
	maxTransactions = 900000
)

func newUUID(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", fmt.Errorf("uuid: %w", err)
	}
	return id.String(), nil
}

// uniform returns a value in [lo, hi] rounded half-away-from-zero to places.
func (d *draw) uniform(lo, hi float64, places int32) float64 {
	v := lo + d.rng.Float64()*(hi-lo)
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// ------------------- Salesforce CRM -------------------

func (f *Factory) account(d *draw, w window) (*model.Record, error) {
	id, err := d.uuid()
	if err != nil {
		return nil, err
	}
	owner, err := d.uuid()
	if err != nil {
		return nil, err
	}
	created := d.between(w.start, w.end)

	rec := model.NewRecord(17)
	rec.Set("Id", id)
	rec.Set("Name", d.fake.Company())
	rec.Set("Type", d.pick(accountTypes))
	rec.Set("Industry", d.pick(industries))
	rec.Set("AnnualRevenue", d.int64n(100000, 50000000))
	rec.Set("NumberOfEmployees", d.int64n(10, 10000))
	rec.Set("BillingStreet", d.fake.Street())
	rec.Set("BillingCity", d.fake.City())
	rec.Set("BillingState", d.fake.State())
	rec.Set("BillingPostalCode", d.fake.Zip())
	rec.Set("BillingCountry", d.fake.Country())
	rec.Set("Phone", d.fake.Phone())
	rec.Set("Website", d.fake.URL())
	rec.Set("CreatedDate", created)
	rec.Set("LastModifiedDate", d.between(created, w.end))
	rec.Set("OwnerId", owner)
	rec.Set("IsDeleted", d.gated(0.05))
	return rec, nil
}

func (f *Factory) opportunity(d *draw, w window) (*model.Record, error) {
	id, err := d.uuid()
	if err != nil {
		return nil, err
	}
	account, err := d.uuid()
	if err != nil {
		return nil, err
	}
	owner, err := d.uuid()
	if err != nil {
		return nil, err
	}
	created := d.between(w.start, w.end)
	closeDate := d.between(created, w.end.Add(closeHorizon))

	rec := model.NewRecord(14)
	rec.Set("Id", id)
	rec.Set("Name", fmt.Sprintf("%s - %s %d", d.fake.Company(), d.pick(quarters), d.intn(2022, 2025)))
	rec.Set("AccountId", account)
	rec.Set("StageName", d.pick(stages))
	rec.Set("Amount", d.int64n(5000, 1000000))
	rec.Set("Probability", d.int64n(10, 90))
	rec.Set("CloseDate", model.NewDate(closeDate))
	rec.Set("Type", d.pick(opportunityTypes))
	rec.Set("LeadSource", d.pick(leadSources))
	rec.Set("CreatedDate", created)
	rec.Set("LastModifiedDate", d.between(created, w.end))
	rec.Set("OwnerId", owner)
	rec.Set("IsWon", d.gated(0.3))
	rec.Set("IsClosed", d.gated(0.4))
	return rec, nil
}

// ------------------- Marketing Cloud -------------------

func (f *Factory) marketingEvent(d *draw, w window) (*model.Record, error) {
	subscriber, err := d.uuid()
	if err != nil {
		return nil, err
	}
	trigger, err := d.uuid()
	if err != nil {
		return nil, err
	}
	rates := f.cfg.FillRates

	rec := model.NewRecord(17)
	rec.Set("JobID", d.int64n(100000, 999999))
	rec.Set("ListID", d.int64n(1000, 9999))
	rec.Set("BatchID", d.int64n(10000, 99999))
	rec.Set("SubscriberID", d.int64n(1000000, 9999999))
	rec.Set("SubscriberKey", subscriber)
	rec.Set("EmailAddress", d.fake.Email())
	rec.Set("EventDate", d.between(w.start, w.end))
	rec.Set("EventType", d.pick(eventTypes))
	rec.Set("SendID", d.int64n(100000, 999999))
	rec.Set("Subject", d.sentence(6))
	rec.Set("FromName", d.fake.Name())
	rec.Set("FromEmail", d.fake.Email())
	rec.Set("TriggererSendDefinitionObjectID", trigger)
	rec.Set("IsUnique", d.rng.IntN(2) == 1)
	rec.Set("URL", d.optional(rates.URL, d.fake.URL))
	rec.Set("LinkName", d.optional(rates.LinkName, d.fake.Word))
	rec.Set("LinkContent", d.optional(rates.LinkContent, func() string { return d.text(100) }))
	return rec, nil
}

// ------------------- NetSuite ERP -------------------

func (f *Factory) financialTransaction(d *draw, w window) (*model.Record, error) {
	tran := d.between(w.start, w.end)
	due := tran.AddDate(0, 0, d.intn(15, 90))

	rec := model.NewRecord(18)
	rec.Set("InternalId", d.uniqueInt(internalIDMin, internalIDMax))
	rec.Set("TransactionNumber", d.transactionNumber())
	rec.Set("Type", d.pick(transactionTypes))
	rec.Set("Status", d.pick(transactionStatuses))
	rec.Set("Entity", d.fake.Company())
	rec.Set("EntityId", d.int64n(1000, 99999))
	rec.Set("TranDate", model.NewDate(tran))
	rec.Set("DueDate", model.NewDate(due))
	rec.Set("Amount", d.uniform(100, 50000, 2))
	rec.Set("Currency", d.pick(currencies))
	rec.Set("ExchangeRate", d.uniform(0.8, 1.2, 4))
	rec.Set("Subsidiary", d.pick(subsidiaries))
	rec.Set("Department", d.pick(departments))
	rec.Set("Location", d.pick(locations))
	rec.Set("CreatedDate", tran)
	rec.Set("LastModifiedDate", d.between(tran, w.end))
	rec.Set("CreatedBy", d.fake.Name())
	rec.Set("Memo", d.optional(f.cfg.FillRates.Memo, func() string { return d.text(200) }))
	return rec, nil
}

// transactionNumber returns an "SO" number not yet issued in this batch.
func (d *draw) transactionNumber() string {
	for {
		n := "SO" + fmt.Sprint(d.int64n(100000, 999999))
		if _, dup := d.seen[n]; !dup {
			d.seen[n] = struct{}{}
			return n
		}
	}
}

// optional returns gen() with probability p, otherwise nil.
func (d *draw) optional(p float64, gen func() string) any {
	if !d.chance(p) {
		return nil
	}
	return gen()
}
