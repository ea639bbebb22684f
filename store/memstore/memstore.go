// Package memstore is an in-process implementation of the store contracts.
// It mirrors the MongoDB behavior the service depends on (unique email,
// newest-first ordering, $set partial updates) and counts every call so
// tests can assert on round-trips and mutations.
package memstore

import (
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/blood-donation-go/models"
	"github.com/phillip/blood-donation-go/store"
)

// Memory holds all collections behind one lock.
type Memory struct {
	mu       sync.Mutex
	calls    map[string]int
	users    []models.User
	requests []models.DonationRequest
	blogs    []models.Blog
	payments []models.Payment
}

func New() *Memory {
	return &Memory{calls: map[string]int{}}
}

// Store exposes m through the store contracts.
func (m *Memory) Store() store.Store {
	return store.Store{
		Users:            users{m},
		DonationRequests: requests{m},
		Blogs:            blogs{m},
		Payments:         payments{m},
	}
}

// Calls returns how many times op (e.g. "users.FindByEmail") ran.
func (m *Memory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Mutations returns the number of write calls across all collections.
func (m *Memory) Mutations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for op, c := range m.calls {
		if isWrite(op) {
			n += c
		}
	}
	return n
}

func isWrite(op string) bool {
	for _, w := range []string{"Insert", "Update", "UpdateProfile", "UpdateIfStatus", "SetRole", "SetStatus", "Delete"} {
		if strings.HasSuffix(op, "."+w) {
			return true
		}
	}
	return false
}

// lock records the call and takes the lock; callers must defer m.mu.Unlock.
func (m *Memory) lock(op string) {
	m.mu.Lock()
	m.calls[op]++
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrInvalidID
	}
	return oid, nil
}

// applySet merges fields into doc the way $set does, by round-tripping
// through BSON so the same field names apply as in MongoDB.
func applySet[T any](doc *T, fields map[string]any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range fields {
		m[k] = v
	}
	raw, err = bson.Marshal(m)
	if err != nil {
		return err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return err
	}
	*doc = out
	return nil
}

func reversed[T any](in []T, limit int64) []T {
	out := make([]T, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		if limit > 0 && int64(len(out)) == limit {
			break
		}
		out = append(out, in[i])
	}
	return out
}
