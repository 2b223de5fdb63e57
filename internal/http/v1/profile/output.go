package profile

// ProfileGetOutput for GET /profile
type ProfileGetOutput struct {
	Body Profile
}

// ProfileReplaceOutput for PUT /profile: 201 with Location on first save, 200 afterwards.
type ProfileReplaceOutput struct {
	Status   int
	Location string `header:"Location" doc:"URL of the created profile"`
	Body     Profile
}
