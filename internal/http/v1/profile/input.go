package profile

// ProfileGetInput for GET /profile
type ProfileGetInput struct{}

// ProfileReplaceInput for PUT /profile. The body is the whole form snapshot.
type ProfileReplaceInput struct {
	Body struct {
		FirstName string   `json:"firstName"          minLength:"1" maxLength:"100" doc:"First name"                        example:"Ann"`
		LastName  string   `json:"lastName"           minLength:"1" maxLength:"100" doc:"Last name"                         example:"Lee"`
		FullName  string   `json:"fullName,omitempty"               maxLength:"201" doc:"Ignored; derived from the name fields" example:"Ann Lee"`
		Age       int      `json:"age"                minimum:"18"  maximum:"150"   doc:"Age in years"                      example:"30"`
		Email     string   `json:"email"              format:"email" maxLength:"254" doc:"Email address"                    example:"ann@example.com"`
		Skills    []string `json:"skills,omitempty"                 maxItems:"100"  doc:"Skill tags in display order"`
	}
}

// ProfileDeleteInput for DELETE /profile
type ProfileDeleteInput struct{}
