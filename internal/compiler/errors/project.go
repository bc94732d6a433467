package errors

import "fmt"

// Project model error codes (PRJ001-099)
const (
	// ErrSceneNotFound indicates a scene name missing from the project
	ErrSceneNotFound ErrorCode = "PRJ001"
	// ErrNameCollision indicates a name shared by an object and a variable,
	// property or parameter
	ErrNameCollision ErrorCode = "PRJ002"
	// ErrUnknownGroupMember indicates a group listing an object that does not exist
	ErrUnknownGroupMember ErrorCode = "PRJ003"
)

// NewSceneNotFound creates a PRJ001 error
func NewSceneNotFound(name string) *CompilerError {
	return newError(
		ErrSceneNotFound,
		"scene_not_found",
		CategoryProject,
		SeverityError,
		fmt.Sprintf("Scene '%s' does not exist in the project", name),
		Location{Scene: name, Parameter: NoParameter},
	)
}

// NewNameCollision creates a PRJ002 warning
func NewNameCollision(scene, name, winner, loser string) *CompilerError {
	return newError(
		ErrNameCollision,
		"name_collision",
		CategoryProject,
		SeverityWarning,
		fmt.Sprintf("'%s' is both a %s and a %s; expressions will use the %s", name, winner, loser, winner),
		Location{Scene: scene, Parameter: NoParameter},
	).WithSuggestion("Rename one of them to avoid ambiguity")
}

// NewUnknownGroupMember creates a PRJ003 warning
func NewUnknownGroupMember(scene, group, member string) *CompilerError {
	return newError(
		ErrUnknownGroupMember,
		"unknown_group_member",
		CategoryProject,
		SeverityWarning,
		fmt.Sprintf("Group '%s' contains '%s' which is not an object", group, member),
		Location{Scene: scene, Parameter: NoParameter},
	)
}
