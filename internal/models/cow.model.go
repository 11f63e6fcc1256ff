package models

const (
	GenderFemale = "Female"
	GenderMale   = "Male"
)

type Cow struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Breed     string  `json:"breed"`
	Gender    string  `json:"gender"`
	Weight    float64 `json:"weight"`
	BirthDate string  `json:"birth_date"`
	User      Ref     `json:"user"`
	CreatedAt string  `json:"created_at"`
}

// CowSet is a ManagedCowSet: the cow ids a farmer is authorized to see
// and act on.
type CowSet map[int]struct{}

func NewCowSet(cows []Cow) CowSet {
	set := make(CowSet, len(cows))
	for _, cow := range cows {
		set[cow.ID] = struct{}{}
	}
	return set
}

func (s CowSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

type CowRequest struct {
	Name      string  `json:"name"`
	Breed     string  `json:"breed"`
	Gender    string  `json:"gender"`
	Weight    float64 `json:"weight"`
	BirthDate string  `json:"birth_date"`
	UserID    int     `json:"user_id"`
}
