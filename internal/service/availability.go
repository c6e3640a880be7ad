package service

import "github.com/noah-isme/college-plan-api/internal/models"

type slotKey struct {
	ID    string
	Start string
}

// AvailabilityIndex tracks which teachers, rooms and groups are taken
// at each start time of one date. It is built per call from the
// entries under consideration and mutated as placements succeed, so it
// never outlives a request.
type AvailabilityIndex struct {
	teacher map[slotKey][]string
	room    map[slotKey][]string
	group   map[slotKey][]string
	roomCap map[string]int
}

// NewAvailabilityIndex returns an empty index. Room capacities default
// to one until registered via SetRoomCapacity.
func NewAvailabilityIndex() *AvailabilityIndex {
	return &AvailabilityIndex{
		teacher: make(map[slotKey][]string),
		room:    make(map[slotKey][]string),
		group:   make(map[slotKey][]string),
		roomCap: make(map[string]int),
	}
}

// SetRoomCapacity registers how many parallel entries a room admits.
func (ix *AvailabilityIndex) SetRoomCapacity(roomID string, capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	ix.roomCap[roomID] = capacity
}

// Add occupies the entry's teacher, room and group slots.
func (ix *AvailabilityIndex) Add(e models.DayPlanEntry) {
	if e.TeacherID != nil {
		k := slotKey{ID: *e.TeacherID, Start: e.StartTime}
		ix.teacher[k] = append(ix.teacher[k], e.ID)
	}
	rk := slotKey{ID: e.RoomID, Start: e.StartTime}
	ix.room[rk] = append(ix.room[rk], e.ID)
	gk := slotKey{ID: e.GroupID, Start: e.StartTime}
	ix.group[gk] = append(ix.group[gk], e.ID)
}

// Remove releases the slots the entry occupied.
func (ix *AvailabilityIndex) Remove(e models.DayPlanEntry) {
	if e.TeacherID != nil {
		k := slotKey{ID: *e.TeacherID, Start: e.StartTime}
		ix.teacher[k] = dropID(ix.teacher[k], e.ID)
	}
	rk := slotKey{ID: e.RoomID, Start: e.StartTime}
	ix.room[rk] = dropID(ix.room[rk], e.ID)
	gk := slotKey{ID: e.GroupID, Start: e.StartTime}
	ix.group[gk] = dropID(ix.group[gk], e.ID)
}

// TeacherFree reports whether a teacher has no entry at the start time.
func (ix *AvailabilityIndex) TeacherFree(teacherID, start string) bool {
	return len(ix.teacher[slotKey{ID: teacherID, Start: start}]) == 0
}

// GroupFree reports whether a group has no entry at the start time.
func (ix *AvailabilityIndex) GroupFree(groupID, start string) bool {
	return len(ix.group[slotKey{ID: groupID, Start: start}]) == 0
}

// RoomFree reports whether the room still has capacity at the start
// time.
func (ix *AvailabilityIndex) RoomFree(roomID, start string) bool {
	capacity := ix.roomCap[roomID]
	if capacity < 1 {
		capacity = 1
	}
	return len(ix.room[slotKey{ID: roomID, Start: start}]) < capacity
}

// RoomOccupants lists the entry IDs occupying a room at the start time.
func (ix *AvailabilityIndex) RoomOccupants(roomID, start string) []string {
	return append([]string(nil), ix.room[slotKey{ID: roomID, Start: start}]...)
}

// TeacherOccupants lists the entry IDs a teacher holds at the start
// time.
func (ix *AvailabilityIndex) TeacherOccupants(teacherID, start string) []string {
	return append([]string(nil), ix.teacher[slotKey{ID: teacherID, Start: start}]...)
}

// GroupOccupants lists the entry IDs a group holds at the start time.
func (ix *AvailabilityIndex) GroupOccupants(groupID, start string) []string {
	return append([]string(nil), ix.group[slotKey{ID: groupID, Start: start}]...)
}

func dropID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
