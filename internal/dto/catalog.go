package dto

// CreateGroupRequest registers a student group.
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

// CreateSubjectRequest registers a discipline.
type CreateSubjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// CreateTeacherRequest registers a teacher.
type CreateTeacherRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// CreateRoomRequest registers an auditorium.
type CreateRoomRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=64"`
	Kind     string `json:"kind" validate:"omitempty,oneof=standard gym"`
	Capacity int    `json:"capacity" validate:"omitempty,min=1,max=16"`
}

// CreateMappingRequest links a teacher to a (group, subject) pair for
// replacement ranking.
type CreateMappingRequest struct {
	GroupID   string `json:"groupId" validate:"required"`
	TeacherID string `json:"teacherId" validate:"required"`
	SubjectID string `json:"subjectId" validate:"required"`
}
