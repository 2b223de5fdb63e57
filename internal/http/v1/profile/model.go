package profile

import (
	"github.com/janisto/profile-editor/internal/platform/timeutil"
)

// Profile is the profile resource returned by every operation.
type Profile struct {
	ID        string        `json:"id"        doc:"Owner user ID"                    example:"user-123"`
	FirstName string        `json:"firstName" doc:"First name"                       example:"Ann"`
	LastName  string        `json:"lastName"  doc:"Last name"                        example:"Lee"`
	FullName  string        `json:"fullName"  doc:"First and last name joined by a space" example:"Ann Lee"`
	Age       int           `json:"age"       doc:"Age in years"                     example:"30"`
	Email     string        `json:"email"     doc:"Email address, lowercased"        example:"ann@example.com"`
	Skills    []string      `json:"skills"    doc:"Skill tags in display order"`
	CreatedAt timeutil.Time `json:"createdAt" doc:"Creation timestamp"               example:"2024-01-15T10:30:00.000Z"`
	UpdatedAt timeutil.Time `json:"updatedAt" doc:"Last update timestamp"            example:"2024-01-15T10:30:00.000Z"`
}
