package techcard

import (
	"context"
	"errors"

	"github.com/Krestall88/cleaning-control-sub000/internal/access"
)

var ErrNotFound = errors.New("tech card not found")

// Manager is the user responsible for an object.
type Manager struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Object is a serviced facility. Manager is nil when nobody is assigned.
type Object struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Manager *Manager `json:"manager,omitempty"`
}

type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TechCard is a recurring task definition: what to do, where, and how often.
// Its lifecycle is owned by the CRUD layer; this core only reads it.
type TechCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	WorkType    string `json:"workType,omitempty"`

	// Frequency is the free-text label as entered by operators
	// ("ежедневно", "раз в месяц", "3 недели", ...).
	Frequency string `json:"frequency"`

	ObjectID string `json:"objectId"`
	Object   Object `json:"object"`
	RoomID   string `json:"roomId,omitempty"`
	Room     *Room  `json:"room,omitempty"`
}

// ManagerID returns the id of the responsible manager, or "".
func (c TechCard) ManagerID() string {
	if c.Object.Manager == nil {
		return ""
	}
	return c.Object.Manager.ID
}

// Repo is the read-only port onto the tech card CRUD store.
type Repo interface {
	// List returns the tech cards visible under the given scope.
	List(ctx context.Context, scope access.Scope) ([]TechCard, error)

	// Get returns a single card regardless of scope; callers enforce
	// scope themselves. Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (TechCard, error)
}
