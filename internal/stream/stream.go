// Package stream defines named, resumable generator streams and the
// persistence contract for their snapshots.
package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/twister/internal/random/mt"
)

var (
	// ErrNotFound indicates a requested snapshot is missing.
	ErrNotFound = errors.New("snapshot not found")
	// ErrNameRequired indicates a snapshot without a stream name.
	ErrNameRequired = errors.New("stream name is required")
)

// Snapshot stores the position of one named generator stream.
type Snapshot struct {
	Name      string
	Seed      uint32
	Draws     uint64
	State     []byte
	UpdatedAt time.Time
}

// Store persists stream snapshots.
type Store interface {
	PutSnapshot(ctx context.Context, snapshot Snapshot) error
	GetSnapshot(ctx context.Context, name string) (Snapshot, error)
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	DeleteSnapshot(ctx context.Context, name string) error
}

// Capture records the current position of g under name.
func Capture(name string, seed uint32, draws uint64, g *mt.Generator) (Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Snapshot{}, ErrNameRequired
	}
	state, err := g.MarshalBinary()
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal generator: %w", err)
	}
	return Snapshot{
		Name:  name,
		Seed:  seed,
		Draws: draws,
		State: state,
	}, nil
}

// Restore rebuilds the generator recorded in s.
func (s Snapshot) Restore() (*mt.Generator, error) {
	g := &mt.Generator{}
	if err := g.UnmarshalBinary(s.State); err != nil {
		return nil, fmt.Errorf("restore stream %q: %w", s.Name, err)
	}
	return g, nil
}

// Stream is a generator that counts its draws so it can be captured.
type Stream struct {
	Name  string
	Seed  uint32
	Draws uint64
	gen   *mt.Generator
}

// New starts a stream at the beginning of seed's sequence.
func New(name string, seed uint32) *Stream {
	return &Stream{Name: name, Seed: seed, gen: mt.New(seed)}
}

// Resume continues the stream recorded in snapshot.
func Resume(snapshot Snapshot) (*Stream, error) {
	g, err := snapshot.Restore()
	if err != nil {
		return nil, err
	}
	return &Stream{Name: snapshot.Name, Seed: snapshot.Seed, Draws: snapshot.Draws, gen: g}, nil
}

// Open resumes name from store. When no snapshot exists it starts the stream
// at the seed returned by newSeed, which is not called otherwise.
func Open(ctx context.Context, store Store, name string, newSeed func() (uint32, error)) (*Stream, error) {
	snapshot, err := store.GetSnapshot(ctx, name)
	if errors.Is(err, ErrNotFound) {
		seed, err := newSeed()
		if err != nil {
			return nil, err
		}
		return New(name, seed), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load stream %q: %w", name, err)
	}
	return Resume(snapshot)
}

// Uint32 draws the next value.
func (s *Stream) Uint32() uint32 {
	s.Draws++
	return s.gen.Uint32()
}

// Float64 draws the next value scaled into [0, 1].
func (s *Stream) Float64() float64 {
	s.Draws++
	return s.gen.Float64()
}

// Uint64 draws two values, high word first.
func (s *Stream) Uint64() uint64 {
	s.Draws += 2
	return s.gen.Uint64()
}

// Snapshot captures the stream's current position.
func (s *Stream) Snapshot() (Snapshot, error) {
	return Capture(s.Name, s.Seed, s.Draws, s.gen)
}

// Save writes the stream's current position to store.
func (s *Stream) Save(ctx context.Context, store Store) error {
	snapshot, err := s.Snapshot()
	if err != nil {
		return err
	}
	if err := store.PutSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("save stream %q: %w", s.Name, err)
	}
	return nil
}
