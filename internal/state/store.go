// Package state holds the reconciled view of the swarm backend. Frames
// replace whole collections; the store never merges, it mirrors.
package state

import (
	"sync"
	"time"

	"driftwatch/internal/domain/models"

	"github.com/google/uuid"
)

const (
	// HistoryWindow is how many intensity samples are kept per pheromone.
	HistoryWindow = 20
	// EventLogCap bounds the event log, newest first.
	EventLogCap = 50
)

// ChangeKind identifies which collection a change notification refers to.
type ChangeKind string

const (
	ChangePheromones ChangeKind = "pheromones"
	ChangePortfolio  ChangeKind = "portfolio"
	ChangeAgents     ChangeKind = "agents"
	ChangeTrades     ChangeKind = "trades"
	ChangeEvents     ChangeKind = "events"
)

// Store is the in-memory state mirror. Writes come from the dispatch
// goroutine in frame order; reads take snapshots and may come from any
// goroutine.
type Store struct {
	mu         sync.RWMutex
	pheromones []models.PheromoneStatus
	history    map[string]*ring
	portfolio  *models.PortfolioState
	agents     []models.AgentMetric
	trades     []models.TradeLogEntry
	events     []models.Event

	subsMu  sync.Mutex
	subs    map[int]chan ChangeKind
	nextSub int
}

func New() *Store {
	return &Store{
		history: make(map[string]*ring),
		subs:    make(map[int]chan ChangeKind),
	}
}

// SetPheromones replaces the pheromone collection and appends each entry's
// intensity to that name's history window. Histories are per-name and
// survive replacement; a name missing from one frame keeps its samples.
func (s *Store) SetPheromones(ps []models.PheromoneStatus) {
	s.mu.Lock()
	s.pheromones = append([]models.PheromoneStatus(nil), ps...)
	for _, p := range ps {
		r, ok := s.history[p.Name]
		if !ok {
			r = newRing(HistoryWindow)
			s.history[p.Name] = r
		}
		r.add(p.Intensity)
	}
	s.mu.Unlock()
	s.notify(ChangePheromones)
}

// SetPortfolio replaces the portfolio snapshot.
func (s *Store) SetPortfolio(p models.PortfolioState) {
	s.mu.Lock()
	s.portfolio = &p
	s.mu.Unlock()
	s.notify(ChangePortfolio)
}

// SetAgents replaces the agent metrics collection.
func (s *Store) SetAgents(as []models.AgentMetric) {
	s.mu.Lock()
	s.agents = append([]models.AgentMetric(nil), as...)
	s.mu.Unlock()
	s.notify(ChangeAgents)
}

// SetTrades replaces the trade log.
func (s *Store) SetTrades(ts []models.TradeLogEntry) {
	s.mu.Lock()
	s.trades = append([]models.TradeLogEntry(nil), ts...)
	s.mu.Unlock()
	s.notify(ChangeTrades)
}

// AddEvent prepends a swarm event with a fresh id and receipt timestamp,
// truncating the log to EventLogCap. Returns the stored event.
func (s *Store) AddEvent(eventType, pheromone string, intensity float64) models.Event {
	ev := models.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Pheromone: pheromone,
		Intensity: intensity,
		Timestamp: time.Now().UTC(),
	}

	s.mu.Lock()
	s.events = append([]models.Event{ev}, s.events...)
	if len(s.events) > EventLogCap {
		s.events = s.events[:EventLogCap]
	}
	s.mu.Unlock()
	s.notify(ChangeEvents)
	return ev
}

// Pheromones returns a copy of the current pheromone collection.
func (s *Store) Pheromones() []models.PheromoneStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PheromoneStatus(nil), s.pheromones...)
}

// History returns the intensity window for a pheromone name, oldest first.
// Unknown names yield nil.
func (s *Store) History(name string) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.history[name]
	if !ok {
		return nil
	}
	return r.values()
}

// Portfolio returns the last portfolio snapshot; ok is false before the
// first portfolio frame.
func (s *Store) Portfolio() (models.PortfolioState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.portfolio == nil {
		return models.PortfolioState{}, false
	}
	return *s.portfolio, true
}

// Agents returns a copy of the agent metrics collection.
func (s *Store) Agents() []models.AgentMetric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AgentMetric(nil), s.agents...)
}

// Trades returns a copy of the trade log.
func (s *Store) Trades() []models.TradeLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TradeLogEntry(nil), s.trades...)
}

// Events returns a copy of the event log, newest first.
func (s *Store) Events() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Event(nil), s.events...)
}

// Snapshot captures every collection at one instant.
type Snapshot struct {
	Pheromones []models.PheromoneStatus `json:"pheromones"`
	History    map[string][]float64     `json:"history"`
	Portfolio  *models.PortfolioState   `json:"portfolio"`
	Agents     []models.AgentMetric     `json:"agents"`
	Trades     []models.TradeLogEntry   `json:"trades"`
	Events     []models.Event           `json:"events"`
}

// Snapshot returns a consistent copy of the whole store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hist := make(map[string][]float64, len(s.history))
	for name, r := range s.history {
		hist[name] = r.values()
	}

	var pf *models.PortfolioState
	if s.portfolio != nil {
		p := *s.portfolio
		pf = &p
	}

	return Snapshot{
		Pheromones: append([]models.PheromoneStatus(nil), s.pheromones...),
		History:    hist,
		Portfolio:  pf,
		Agents:     append([]models.AgentMetric(nil), s.agents...),
		Trades:     append([]models.TradeLogEntry(nil), s.trades...),
		Events:     append([]models.Event(nil), s.events...),
	}
}

// Subscribe registers a change listener. Notifications are best effort:
// a full channel drops the kind rather than block the dispatch path.
func (s *Store) Subscribe(buf int) (int, <-chan ChangeKind) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan ChangeKind, buf)
	s.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (s *Store) Unsubscribe(id int) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Store) notify(kind ChangeKind) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- kind:
		default:
		}
	}
}
