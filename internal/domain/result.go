package domain

import "time"

type Term string

const (
	FirstTerm  Term = "First Term"
	SecondTerm Term = "Second Term"
	ThirdTerm  Term = "Third Term"
)

var Terms = []Term{FirstTerm, SecondTerm, ThirdTerm}

// Index returns the term's position in the session, or -1 for an unknown term.
func (t Term) Index() int {
	for i, term := range Terms {
		if t == term {
			return i
		}
	}
	return -1
}

func (t Term) Valid() bool {
	return t.Index() >= 0
}

type SubjectScore struct {
	ID       uint    `json:"id,omitempty"`
	Subject  string  `json:"subject"`
	CA1      float64 `json:"ca1"`
	CA2      float64 `json:"ca2"`
	Exam     float64 `json:"exam"`
	Total    float64 `json:"total"`
	Grade    string  `json:"grade"`
	Remark   string  `json:"remark"`
	Position int     `json:"position"`
}

type Result struct {
	ID               uint           `json:"id"`
	StudentID        uint           `json:"student_id"`
	Student          *Student       `json:"student,omitempty"`
	ClassName        string         `json:"class_name"`
	Session          string         `json:"session"`
	Term             Term           `json:"term"`
	Subjects         []SubjectScore `json:"subjects"`
	TotalScore       float64        `json:"total_score"`
	Average          float64        `json:"average"`
	GPA              float64        `json:"gpa"`
	Grade            string         `json:"grade"`
	Position         int            `json:"position"`
	OutOf            int            `json:"out_of"`
	TeacherComment   string         `json:"teacher_comment"`
	PrincipalComment string         `json:"principal_comment"`
	DaysPresent      int            `json:"days_present"`
	DaysOpened       int            `json:"days_opened"`
	NextTermBegins   *time.Time     `json:"next_term_begins,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type ResultFilter struct {
	StudentID uint
	ClassName string
	Session   string
	Term      Term
	Page
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type CumulativeTerm struct {
	Term     Term    `json:"term"`
	ResultID uint    `json:"result_id"`
	Average  float64 `json:"average"`
	GPA      float64 `json:"gpa"`
	Position int     `json:"position"`
}

type CumulativeResult struct {
	Student  Student          `json:"student"`
	Terms    []CumulativeTerm `json:"terms"`
	Average  float64          `json:"average"`
	GPA      float64          `json:"gpa"`
	Grade    string           `json:"grade"`
	Position int              `json:"position"`
	Trend    Trend            `json:"trend"`
}
