// Package generator produces synthetic business records for the supported
// entity kinds.
package generator

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	mrand "math/rand/v2"
	"time"

	"go-bi-stack/internal/model"

	"github.com/brianvoe/gofakeit/v7"
)

// DefaultMaxRecords caps a single generation call unless configured otherwise.
const DefaultMaxRecords = 100000

// FillRates is the probability that each nullable field is populated.
type FillRates struct {
	URL         float64 `mapstructure:"url"`
	LinkName    float64 `mapstructure:"link_name"`
	LinkContent float64 `mapstructure:"link_content"`
	Memo        float64 `mapstructure:"memo"`
}

// DefaultFillRates returns the fill rates of the reference data sets.
func DefaultFillRates() FillRates {
	return FillRates{URL: 0.3, LinkName: 0.3, LinkContent: 0.3, Memo: 0.5}
}

// Config holds factory settings.
type Config struct {
	MaxRecords int       `mapstructure:"max_records"`
	FillRates  FillRates `mapstructure:"fill_rates"`
}

// Options tune a single Generate call.
type Options struct {
	// Progress, when set, is called after each record with the number of
	// records built so far and the batch size.
	Progress func(done, total int)
}

// Batch is the result of one generation call.
type Batch struct {
	Kind        model.EntityKind
	Seed        uint64
	Fields      []string
	Records     []*model.Record
	GeneratedAt time.Time
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int { return len(b.Records) }

// Factory builds record batches. It holds no per-call state and is safe for
// concurrent use.
type Factory struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Factory. Zero config values fall back to defaults.
func New(cfg Config, logger *slog.Logger) *Factory {
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = DefaultMaxRecords
	}
	if cfg.FillRates == (FillRates{}) {
		cfg.FillRates = DefaultFillRates()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{cfg: cfg, logger: logger}
}

// MaxRecords returns the per-call record ceiling.
func (f *Factory) MaxRecords() int { return f.cfg.MaxRecords }

// NewSource returns the deterministic random source for seed.
func NewSource(seed uint64) *mrand.ChaCha8 {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	copy(key[8:], "go-bi-stack/generator/v1")
	return mrand.NewChaCha8(key)
}

// NewSeed draws a non-zero seed from the operating system.
func NewSeed() uint64 {
	var b [8]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			return uint64(time.Now().UnixNano())
		}
		if s := binary.LittleEndian.Uint64(b[:]); s != 0 {
			return s
		}
	}
}

// Generate validates req and builds a batch. A zero req.Seed draws a fresh
// seed, which is reported on the returned Batch.
func (f *Factory) Generate(ctx context.Context, req model.GenerationRequest, opts Options) (*Batch, error) {
	seed := req.Seed
	if seed == 0 {
		seed = NewSeed()
	}
	batch, err := f.GenerateFrom(ctx, NewSource(seed), req, opts)
	if err != nil {
		return nil, err
	}
	batch.Seed = seed
	return batch, nil
}

// GenerateFrom builds a batch drawing every random value from src.
func (f *Factory) GenerateFrom(ctx context.Context, src *mrand.ChaCha8, req model.GenerationRequest, opts Options) (*Batch, error) {
	if err := req.Validate(f.cfg.MaxRecords); err != nil {
		return nil, err
	}
	schema, err := model.SchemaFor(req.Kind)
	if err != nil {
		return nil, err
	}

	d := newDraw(src)
	w := window{
		start: model.NewDate(req.Start).Time,
		end:   model.NewDate(req.End).Add(24*time.Hour - time.Second),
	}
	n := d.intn(req.MinRecords, req.MaxRecords)

	var build func(*draw, window) (*model.Record, error)
	switch req.Kind {
	case model.KindAccount:
		build = f.account
	case model.KindOpportunity:
		build = f.opportunity
	case model.KindMarketingEvent:
		build = f.marketingEvent
	case model.KindFinancialTransaction:
		if n > maxTransactions {
			return nil, fmt.Errorf("%w: %d transactions exceed the identifier space", model.ErrInvalidRange, n)
		}
		build = f.financialTransaction
	}

	started := time.Now()
	records := make([]*model.Record, 0, n)
	for i := 0; i < n; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := build(d, w)
		if err != nil {
			return nil, fmt.Errorf("build %s record %d: %w", req.Kind, i, err)
		}
		records = append(records, rec)
		if opts.Progress != nil {
			opts.Progress(i+1, n)
		}
	}

	f.logger.Debug("generated batch",
		"kind", req.Kind,
		"records", n,
		"duration", time.Since(started))

	return &Batch{
		Kind:        req.Kind,
		Seed:        req.Seed,
		Fields:      schema.Names(),
		Records:     records,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// window is the closed interval timestamps are drawn from.
type window struct {
	start, end time.Time
}

// draw bundles the random helpers for one call. All of them read from the
// same source so a seed fixes the whole batch.
type draw struct {
	rng  *mrand.Rand
	src  *mrand.ChaCha8
	fake *gofakeit.Faker
	seen map[string]struct{}
	ids  map[int64]struct{}
}

func newDraw(src *mrand.ChaCha8) *draw {
	return &draw{
		rng:  mrand.New(src),
		src:  src,
		fake: gofakeit.NewFaker(src, false),
		seen: make(map[string]struct{}),
		ids:  make(map[int64]struct{}),
	}
}

// intn returns a uniform integer in [lo, hi].
func (d *draw) intn(lo, hi int) int {
	return lo + d.rng.IntN(hi-lo+1)
}

func (d *draw) int64n(lo, hi int64) int64 {
	return lo + d.rng.Int64N(hi-lo+1)
}

func (d *draw) pick(values []string) string {
	return values[d.rng.IntN(len(values))]
}

func (d *draw) chance(p float64) bool {
	return d.rng.Float64() < p
}

// gated mirrors a flag that is only ever set inside a p-probability gate,
// and then only half the time.
func (d *draw) gated(p float64) bool {
	if !d.chance(p) {
		return false
	}
	return d.rng.IntN(2) == 1
}

// between returns a second-resolution instant in [lo, hi].
func (d *draw) between(lo, hi time.Time) time.Time {
	span := hi.Unix() - lo.Unix()
	if span <= 0 {
		return lo.Truncate(time.Second)
	}
	return time.Unix(lo.Unix()+d.rng.Int64N(span+1), 0).UTC()
}

// uuid returns a version 4 UUID not yet issued in this batch.
func (d *draw) uuid() (string, error) {
	for {
		id, err := newUUID(d.src)
		if err != nil {
			return "", err
		}
		if _, dup := d.seen[id]; !dup {
			d.seen[id] = struct{}{}
			return id, nil
		}
	}
}

// uniqueInt returns an integer in [lo, hi] not yet issued in this batch. On
// collision it walks forward, wrapping at hi.
func (d *draw) uniqueInt(lo, hi int64) int64 {
	v := d.int64n(lo, hi)
	for {
		if _, dup := d.ids[v]; !dup {
			d.ids[v] = struct{}{}
			return v
		}
		v++
		if v > hi {
			v = lo
		}
	}
}

// sentence joins n random words into a capitalised sentence.
func (d *draw) sentence(n int) string {
	b := make([]byte, 0, n*8)
	for i := 0; i < n; i++ {
		w := d.fake.Word()
		if i == 0 && w != "" && w[0] >= 'a' && w[0] <= 'z' {
			w = string(w[0]-'a'+'A') + w[1:]
		}
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, w...)
	}
	return string(append(b, '.'))
}

// text returns filler prose no longer than maxChars.
func (d *draw) text(maxChars int) string {
	s := d.sentence(d.intn(4, 12))
	for len(s) < maxChars/2 {
		s += " " + d.sentence(d.intn(4, 12))
	}
	if len(s) > maxChars {
		s = s[:maxChars-1]
		for len(s) > 0 && s[len(s)-1] == ' ' {
			s = s[:len(s)-1]
		}
		s += "."
	}
	return s
}
