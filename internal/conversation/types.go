// Package conversation holds session-scoped chat histories.
package conversation

// Role identifies who produced a turn
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is a single role-tagged utterance. Turns are values: once appended to a history they are never changed
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// UserTurn returns a turn authored by the user
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// ModelTurn returns a turn authored by the model
func ModelTurn(text string) Turn {
	return Turn{Role: RoleModel, Text: text}
}
