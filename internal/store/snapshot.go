package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"go-pos-ws/internal/model"
)

const (
	ordersFile = "pos_transactions.json"
	usersFile  = "app_users.json"
)

// Snapshot persists last-known-good state to local JSON files so the register
// keeps working when the database is unreachable. Malformed or missing files
// read as empty, never as an error.
type Snapshot struct {
	dir string
}

func NewSnapshot(dir string) *Snapshot {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("snapshot: cannot create %s: %v", dir, err)
	}
	return &Snapshot{dir: dir}
}

func (s *Snapshot) LoadOrders() []model.Order {
	var orders []model.Order
	s.load(ordersFile, &orders)
	return orders
}

func (s *Snapshot) SaveOrders(orders []model.Order) {
	s.save(ordersFile, orders)
}

func (s *Snapshot) DropOrders() {
	if err := os.Remove(filepath.Join(s.dir, ordersFile)); err != nil && !os.IsNotExist(err) {
		log.Printf("snapshot: remove %s: %v", ordersFile, err)
	}
}

// persistedUser re-exposes the credential hash that the API shape hides, so
// the offline fallback can still authenticate.
type persistedUser struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Password     string     `json:"password"`
	Role         model.Role `json:"role"`
	TokenVersion string     `json:"token_version"`
}

func (s *Snapshot) LoadUsers() []model.User {
	var persisted []persistedUser
	s.load(usersFile, &persisted)
	users := make([]model.User, len(persisted))
	for i, p := range persisted {
		users[i] = model.User{ID: p.ID, Name: p.Name, Password: p.Password, Role: p.Role, TokenVersion: p.TokenVersion}
	}
	return users
}

func (s *Snapshot) SaveUsers(users []model.User) {
	persisted := make([]persistedUser, len(users))
	for i, u := range users {
		persisted[i] = persistedUser{ID: u.ID, Name: u.Name, Password: u.Password, Role: u.Role, TokenVersion: u.TokenVersion}
	}
	s.save(usersFile, persisted)
}

func (s *Snapshot) load(name string, v interface{}) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Corrupted cache counts as empty; the next save overwrites it.
		log.Printf("snapshot: %s is malformed, treating as empty: %v", name, err)
	}
}

func (s *Snapshot) save(name string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("snapshot: marshal %s: %v", name, err)
		return
	}
	tmp := filepath.Join(s.dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("snapshot: write %s: %v", name, err)
		return
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		log.Printf("snapshot: rename %s: %v", name, err)
	}
}
