package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/college-plan-api/internal/models"
)

func indexEntry(id, teacherID, roomID, groupID, start string) models.DayPlanEntry {
	e := models.DayPlanEntry{
		ID:        id,
		RoomID:    roomID,
		GroupID:   groupID,
		StartTime: start,
	}
	if teacherID != "" {
		e.TeacherID = &teacherID
	}
	return e
}

func TestAvailabilityIndexTracksAllThreeResources(t *testing.T) {
	ix := NewAvailabilityIndex()
	ix.Add(indexEntry("e1", "t1", "r1", "g1", "08:00"))

	assert.False(t, ix.TeacherFree("t1", "08:00"))
	assert.False(t, ix.RoomFree("r1", "08:00"))
	assert.False(t, ix.GroupFree("g1", "08:00"))

	assert.True(t, ix.TeacherFree("t1", "09:40"))
	assert.True(t, ix.TeacherFree("t2", "08:00"))
	assert.True(t, ix.RoomFree("r2", "08:00"))
	assert.True(t, ix.GroupFree("g2", "08:00"))
}

func TestAvailabilityIndexCapacityAwareRooms(t *testing.T) {
	ix := NewAvailabilityIndex()
	ix.SetRoomCapacity("gym", 4)

	for i := 0; i < 3; i++ {
		ix.Add(indexEntry(string(rune('a'+i)), "", "gym", "g1", "08:00"))
	}
	assert.True(t, ix.RoomFree("gym", "08:00"))

	ix.Add(indexEntry("d", "", "gym", "g2", "08:00"))
	assert.False(t, ix.RoomFree("gym", "08:00"))
	assert.Len(t, ix.RoomOccupants("gym", "08:00"), 4)

	// unregistered rooms default to capacity one
	ix.Add(indexEntry("x", "", "r9", "g3", "08:00"))
	assert.False(t, ix.RoomFree("r9", "08:00"))
}

func TestAvailabilityIndexRemoveReleasesSlots(t *testing.T) {
	ix := NewAvailabilityIndex()
	e := indexEntry("e1", "t1", "r1", "g1", "08:00")
	ix.Add(e)
	ix.Remove(e)

	assert.True(t, ix.TeacherFree("t1", "08:00"))
	assert.True(t, ix.RoomFree("r1", "08:00"))
	assert.True(t, ix.GroupFree("g1", "08:00"))
}

func TestAvailabilityIndexVacantTeacherDoesNotOccupy(t *testing.T) {
	ix := NewAvailabilityIndex()
	ix.Add(indexEntry("e1", "", "r1", "g1", "08:00"))

	assert.True(t, ix.TeacherFree("", "08:00"))
	assert.Empty(t, ix.TeacherOccupants("", "08:00"))
}
