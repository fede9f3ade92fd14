package calendar

import (
	"time"

	"github.com/Krestall88/cleaning-control-sub000/internal/record"
	"github.com/Krestall88/cleaning-control-sub000/internal/schedule"
)

// TaskKind discriminates the two origins of a unified task.
type TaskKind string

const (
	KindVirtual      TaskKind = "VIRTUAL"
	KindMaterialized TaskKind = "MATERIALIZED"
)

type ManagerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type ObjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TechCardRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Frequency   string `json:"frequency"`
	WorkType    string `json:"workType,omitempty"`
}

type ObjectInfo struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Manager *ManagerRef `json:"manager,omitempty"`
}

// UnifiedTask is the merged view over virtual and materialized occurrences.
// The completion fields are populated iff Kind is KindMaterialized; the
// constructors below own that invariant. Instances are built fresh per query
// and never cached across requests.
type UnifiedTask struct {
	ID            string          `json:"id"`
	Kind          TaskKind        `json:"type"`
	TechCardID    string          `json:"techCardId"`
	Description   string          `json:"description"`
	ScheduledDate time.Time       `json:"scheduledDate"`
	Status        schedule.Status `json:"status"`

	ObjectID   string `json:"objectId"`
	ObjectName string `json:"objectName"`
	RoomID     string `json:"roomId,omitempty"`
	RoomName   string `json:"roomName,omitempty"`

	TechCard TechCardRef `json:"techCard"`
	Object   ObjectInfo  `json:"object"`

	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	CompletedBy       *UserRef   `json:"completedBy,omitempty"`
	CompletionComment string     `json:"completionComment,omitempty"`
	CompletionPhotos  []string   `json:"completionPhotos,omitempty"`

	Frequency     string `json:"frequency"`
	FrequencyDays int    `json:"frequencyDays"`
}

type TaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
	Today     int `json:"today"`
	Pending   int `json:"pending"`
}

func (st *TaskStats) add(status schedule.Status) {
	st.Total++
	switch status {
	case schedule.StatusOverdue:
		st.Overdue++
	case schedule.StatusAvailable:
		st.Today++
	case schedule.StatusCompleted:
		st.Completed++
	case schedule.StatusPending:
		st.Pending++
	}
}

type PeriodicityGroup struct {
	Frequency string        `json:"frequency"`
	Tasks     []UnifiedTask `json:"tasks"`
	Stats     TaskStats     `json:"stats"`
}

type ManagerGroup struct {
	Manager       ManagerRef         `json:"manager"`
	Tasks         []UnifiedTask      `json:"tasks"`
	Stats         TaskStats          `json:"stats"`
	Objects       []ObjectRef        `json:"objects"`
	ByPeriodicity []PeriodicityGroup `json:"byPeriodicity"`
}

type ObjectGroup struct {
	Object        ObjectRef          `json:"object"`
	Manager       *ManagerRef        `json:"manager,omitempty"`
	Tasks         []UnifiedTask      `json:"tasks"`
	Stats         TaskStats          `json:"stats"`
	ByPeriodicity []PeriodicityGroup `json:"byPeriodicity"`
}

// CalendarResponse is the full payload for one calendar day.
type CalendarResponse struct {
	Overdue   []UnifiedTask `json:"overdue"`
	Today     []UnifiedTask `json:"today"`
	Upcoming  []UnifiedTask `json:"upcoming"`
	Completed []UnifiedTask `json:"completed"`

	ByManager []ManagerGroup `json:"byManager"`
	ByObject  []ObjectGroup  `json:"byObject"`

	Total int `json:"total"`
}

// newVirtualTask projects an occurrence into the unified view.
func newVirtualTask(occ schedule.Occurrence, status schedule.Status) UnifiedTask {
	card := occ.Card

	t := UnifiedTask{
		ID:            occ.ID.String(),
		Kind:          KindVirtual,
		TechCardID:    card.ID,
		Description:   card.Name,
		ScheduledDate: occ.Date,
		Status:        status,
		ObjectID:      card.ObjectID,
		ObjectName:    card.Object.Name,
		TechCard: TechCardRef{
			ID:          card.ID,
			Name:        card.Name,
			Description: card.Description,
			Frequency:   card.Frequency,
			WorkType:    card.WorkType,
		},
		Object:        ObjectInfo{ID: card.Object.ID, Name: card.Object.Name},
		Frequency:     card.Frequency,
		FrequencyDays: occ.Rule.PeriodDays,
	}

	if m := card.Object.Manager; m != nil {
		t.Object.Manager = &ManagerRef{ID: m.ID, Name: m.Name, Phone: m.Phone}
	}
	if card.Room != nil {
		t.RoomID = card.Room.ID
		t.RoomName = card.Room.Name
	}
	return t
}

// materializedTask projects a stored record into the unified view. Only the
// snapshot taken at materialization time is used; the live tech card may have
// changed or been deleted since.
func materializedTask(rec record.MaterializedRecord) UnifiedTask {
	rule := schedule.ParseFrequency(rec.Frequency)

	status := schedule.StatusFailed
	if rec.Status == record.StatusCompleted {
		status = schedule.StatusCompleted
	}

	t := UnifiedTask{
		ID:            rec.ID.String(),
		Kind:          KindMaterialized,
		TechCardID:    rec.ID.TechCardID,
		Description:   rec.Description,
		ScheduledDate: rec.ID.Date,
		Status:        status,
		ObjectID:      rec.ObjectID,
		ObjectName:    rec.ObjectName,
		RoomID:        rec.RoomID,
		RoomName:      rec.RoomName,
		TechCard: TechCardRef{
			ID:        rec.ID.TechCardID,
			Name:      rec.Description,
			Frequency: rec.Frequency,
		},
		Object:            ObjectInfo{ID: rec.ObjectID, Name: rec.ObjectName},
		CompletionComment: rec.Comment,
		CompletionPhotos:  rec.Photos,
		Frequency:         rec.Frequency,
		FrequencyDays:     rule.PeriodDays,
	}

	if rec.ManagerID != "" {
		t.Object.Manager = &ManagerRef{ID: rec.ManagerID, Name: rec.ManagerName}
	}
	if !rec.CompletedAt.IsZero() {
		at := rec.CompletedAt
		t.CompletedAt = &at
	}
	if rec.CompletedByID != "" {
		t.CompletedBy = &UserRef{ID: rec.CompletedByID, Name: rec.CompletedByName}
	}
	return t
}
