// Package status holds the latest classified reading for concurrent readers.
//
// The capture loop is the only writer. HTTP handlers read a copy of the
// snapshot; the lock is held only for that copy.
package status

import (
	"sync"
	"time"

	"github.com/teslashibe/eyeguard/pkg/distance"
)

// Snapshot is the most recent published reading.
// Distance is nil until the first frame has been processed.
type Snapshot struct {
	State     distance.State `json:"state"`
	Distance  *float64       `json:"distance"`
	Faces     int            `json:"faces"`
	Frames    uint64         `json:"frames"`
	UpdatedAt *time.Time     `json:"updated_at"`
}

// Payload is the two-field body served on /get-data.
type Payload struct {
	State    distance.State `json:"state"`
	Distance *float64       `json:"distance"`
}

// Payload trims the snapshot to state and distance.
func (s Snapshot) Payload() Payload {
	return Payload{State: s.State, Distance: s.Distance}
}

// Ready reports whether any reading has been stored.
func (s Snapshot) Ready() bool {
	return s.Distance != nil
}

// Store guards the current snapshot.
type Store struct {
	mu    sync.RWMutex
	snap  Snapshot
	clock func() time.Time

	// OnUpdate is called with the new snapshot after every Update,
	// outside the lock.
	OnUpdate func(Snapshot)
}

// NewStore returns an empty store. The zero Store is also ready to use.
func NewStore() *Store {
	return &Store{clock: time.Now}
}

// Update publishes a reading from faces detected faces.
func (s *Store) Update(r distance.Reading, faces int) Snapshot {
	d := r.Distance
	now := time.Now()
	if s.clock != nil {
		now = s.clock()
	}

	s.mu.Lock()
	s.snap.State = r.State
	s.snap.Distance = &d
	s.snap.Faces = faces
	s.snap.Frames++
	s.snap.UpdatedAt = &now
	snap := s.snap
	callback := s.OnUpdate
	s.mu.Unlock()

	if callback != nil {
		callback(snap)
	}
	return snap
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
