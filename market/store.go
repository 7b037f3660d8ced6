package market

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"cryptoflow/models"
	"cryptoflow/utils"
)

// Store owns the canonical coin list. AdvanceTick is the only writer of coin data;
// readers always get deep copies of a complete tick.
type Store struct {
	mu      sync.RWMutex
	coins   []models.CoinRecord
	index   map[string]int
	version uint64
	loading bool
	errMsg  string
	updated time.Time

	rand   RandomSource
	now    func() time.Time
	window int

	subMu  sync.Mutex
	subs   map[int]chan models.Snapshot
	nextID int
}

type Option func(*Store)

// WithRand replaces the random source of the walk.
func WithRand(r RandomSource) Option {
	return func(s *Store) { s.rand = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithWindow resizes every chart window at seed time. Short seeds are padded on the
// left with their oldest point, long ones keep their most recent points.
func WithWindow(n int) Option {
	return func(s *Store) { s.window = n }
}

// NewStore seeds a store. Records are copied and ordered by rank.
func NewStore(seed []models.CoinRecord, opts ...Option) (*Store, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("seed dataset is empty")
	}

	s := &Store{
		rand:  globalRand{},
		now:   time.Now,
		index: make(map[string]int, len(seed)),
		subs:  make(map[int]chan models.Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}

	coins := make([]models.CoinRecord, len(seed))
	for i, c := range seed {
		coins[i] = c.Clone()
	}
	sort.SliceStable(coins, func(i, j int) bool { return coins[i].Rank < coins[j].Rank })

	now := s.now()
	for i := range coins {
		c := &coins[i]
		if _, dup := s.index[c.ID]; dup {
			return nil, fmt.Errorf("duplicate coin id %q", c.ID)
		}
		if i > 0 && coins[i-1].Rank == c.Rank {
			return nil, fmt.Errorf("duplicate rank %d (%s, %s)", c.Rank, coins[i-1].ID, c.ID)
		}
		if s.window > 0 {
			if s.window < 2 {
				return nil, fmt.Errorf("chart window must hold at least 2 points, got %d", s.window)
			}
			if len(c.ChartData) == 0 {
				return nil, fmt.Errorf("coin %q has no chart data", c.ID)
			}
			c.ChartData = resize(c.ChartData, s.window)
		}
		if c.PriceDirection == "" {
			c.PriceDirection = models.DirectionStable
		}
		if c.LastUpdated.IsZero() {
			c.LastUpdated = now
		}
		s.index[c.ID] = i
	}

	s.coins = coins
	s.updated = now
	return s, nil
}

func resize(data []float64, n int) []float64 {
	if len(data) >= n {
		return append([]float64(nil), data[len(data)-n:]...)
	}
	out := make([]float64, n)
	pad := n - len(data)
	for i := 0; i < pad; i++ {
		out[i] = data[0]
	}
	copy(out[pad:], data)
	return out
}

// GetAll returns the current coins in rank order.
func (s *Store) GetAll() []models.CoinRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.coins)
}

func (s *Store) Get(id string) (models.CoinRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.CoinRecord{}, false
	}
	return s.coins[i].Clone(), true
}

func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Version:   s.version,
		Coins:     cloneAll(s.coins),
		Loading:   s.loading,
		Error:     s.errMsg,
		UpdatedAt: s.updated,
	}
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// AdvanceTick moves every coin one step. Either all coins advance or, on an
// *UpdateFailure, none do.
func (s *Store) AdvanceTick() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	next := make([]models.CoinRecord, len(s.coins))
	for i, c := range s.coins {
		updated, err := step(c, s.rand, now)
		if err != nil {
			return err
		}
		next[i] = updated
	}

	s.coins = next
	s.version++
	s.updated = now
	s.publish(s.snapshotLocked())
	return nil
}

// SetError records a failure message for observers. An empty message clears it.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.errMsg == msg {
		return
	}
	s.errMsg = msg
	s.publish(s.snapshotLocked())
}

func (s *Store) ClearError() {
	s.SetError("")
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading == loading {
		return
	}
	s.loading = loading
	s.publish(s.snapshotLocked())
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the current error message, empty when none.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Subscribe registers for store-changed notifications. A subscriber that falls
// behind misses snapshots instead of blocking the writer. Call cancel to release it.
func (s *Store) Subscribe(buffer int) (<-chan models.Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan models.Snapshot, buffer)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publish runs under s.mu so subscribers see snapshots in version order.
func (s *Store) publish(snap models.Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for id, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			utils.Logger.Warnw("Subscriber channel full, dropping snapshot",
				"subscriber", id,
				"version", snap.Version)
		}
	}
}

func cloneAll(coins []models.CoinRecord) []models.CoinRecord {
	out := make([]models.CoinRecord, len(coins))
	for i, c := range coins {
		out[i] = c.Clone()
	}
	return out
}
