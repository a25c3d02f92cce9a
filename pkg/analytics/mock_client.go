package analytics

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-kbadmin/components/portal"
	"github.com/goliatone/go-kbadmin/components/portal/chart"
)

const (
	usageLabelLayout = "Jan 2"
	defaultUsageDays = 7
	usageFloor       = 1200
	usageSpread      = 500
)

// MockData seeds the counters returned by the mock client.
type MockData struct {
	TotalArticles      int
	TotalViews         int
	PendingApproval    int
	ActiveContributors int
}

// DefaultMockData returns the demo counters.
func DefaultMockData() MockData {
	return MockData{
		TotalArticles:      348,
		TotalViews:         12567,
		PendingApproval:    3,
		ActiveContributors: 24,
	}
}

// MockOptions configures a MockClient.
type MockOptions struct {
	Data MockData
	// Days is the usage series length, 7 when zero.
	Days int
	// Seed makes the generated usage series reproducible.
	Seed uint64
	Now  func() time.Time
}

// Decision is a review decision captured by the mock.
type Decision struct {
	ItemID   string
	Approved bool
	Reason   string
}

// MockClient implements Client using in-memory fixtures and a random usage
// series in [1200, 1700) views per day.
type MockClient struct {
	mu        sync.RWMutex
	data      MockData
	days      int
	now       func() time.Time
	rng       *rand.Rand
	pingErr   error
	reviewErr error
	decisions []Decision
}

// NewMockClient builds a mock analytics client.
func NewMockClient(opts MockOptions) *MockClient {
	if opts.Data == (MockData{}) {
		opts.Data = DefaultMockData()
	}
	if opts.Days <= 0 {
		opts.Days = defaultUsageDays
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &MockClient{
		data: opts.Data,
		days: opts.Days,
		now:  opts.Now,
		rng:  rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// FailPing makes Ping return err; nil restores success.
func (c *MockClient) FailPing(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pingErr = err
}

// FailReviews makes approve/reject return err; nil restores success.
func (c *MockClient) FailReviews(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reviewErr = err
}

// Ping succeeds unless a failure was injected.
func (c *MockClient) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pingErr
}

// FetchAnalytics returns the fixture counters and a fresh usage series for
// the days ending today.
func (c *MockClient) FetchAnalytics(ctx context.Context) (portal.Analytics, error) {
	if err := ctx.Err(); err != nil {
		return portal.Analytics{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	today := c.now()
	series := make([]chart.Sample, c.days)
	for i := range series {
		day := today.AddDate(0, 0, i-c.days+1)
		series[i] = chart.Sample{
			Label: day.Format(usageLabelLayout),
			Value: float64(usageFloor + c.rng.IntN(usageSpread)),
		}
	}
	return portal.Analytics{
		TotalArticles:      c.data.TotalArticles,
		TotalViews:         c.data.TotalViews,
		PendingApproval:    c.data.PendingApproval,
		ActiveContributors: c.data.ActiveContributors,
		UsageSeries:        series,
	}, nil
}

// ApproveItem records an approval and decrements the pending counter.
func (c *MockClient) ApproveItem(_ context.Context, id string) error {
	return c.review(Decision{ItemID: id, Approved: true})
}

// RejectItem records a rejection and decrements the pending counter.
func (c *MockClient) RejectItem(_ context.Context, id, reason string) error {
	return c.review(Decision{ItemID: id, Reason: reason})
}

// Decisions returns the recorded review decisions in order.
func (c *MockClient) Decisions() []Decision {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Decision(nil), c.decisions...)
}

func (c *MockClient) review(d Decision) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reviewErr != nil {
		return c.reviewErr
	}
	d.ItemID = strings.TrimSpace(d.ItemID)
	c.decisions = append(c.decisions, d)
	if c.data.PendingApproval > 0 {
		c.data.PendingApproval--
	}
	return nil
}
