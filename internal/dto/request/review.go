package request

type ScoresRequest struct {
	Direction      int `json:"direction" validate:"required,min=1,max=10"`
	Screenplay     int `json:"screenplay" validate:"required,min=1,max=10"`
	Cinematography int `json:"cinematography" validate:"required,min=1,max=10"`
	General        int `json:"general" validate:"required,min=1,max=10"`
}

type CreateReviewRequest struct {
	Content string        `json:"content" validate:"required,min=1,max=2000"`
	Scores  ScoresRequest `json:"scores"`
}

// UpdateReviewRequest replaces content and scores wholesale.
type UpdateReviewRequest struct {
	Content string        `json:"content" validate:"required,min=1,max=2000"`
	Scores  ScoresRequest `json:"scores"`
}

type FlagReviewRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=255"`
}
