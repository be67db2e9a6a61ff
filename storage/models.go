package storage

import (
	"fmt"
	"time"
)

const (
	TabularTypeScoring = "scoring"
	TabularTypeRanking = "ranking"
)

type Participant struct {
	ID       int    `dynamodbav:"PK"`
	Name     string `dynamodbav:"Name"`
	Number   int    `dynamodbav:"Number"`
	Division string `dynamodbav:"Division"`
	Active   bool   `dynamodbav:"Active"`
}

type Criterion struct {
	ID         int     `dynamodbav:"PK"`
	CategoryID int     `dynamodbav:"CategoryID"`
	Name       string  `dynamodbav:"Name"`
	Percentage float64 `dynamodbav:"Percentage"`
	MinScore   float64 `dynamodbav:"MinScore"`
	MaxScore   float64 `dynamodbav:"MaxScore"`
	Order      int     `dynamodbav:"DisplayOrder"`
}

// Max is the upper bound for a score on this criterion. An explicit MaxScore
// wins when the administration configured bounds, otherwise the weight caps it.
func (c *Criterion) Max() float64 {
	if c.MaxScore > 0 {
		return c.MaxScore
	}
	return c.Percentage
}

type Category struct {
	ID          int    `dynamodbav:"PK"`
	Name        string `dynamodbav:"Name"`
	TabularType string `dynamodbav:"TabularType"`
	Completed   bool   `dynamodbav:"Completed"`
	Order       int    `dynamodbav:"DisplayOrder"`
}

// ScoreCell is one judge's input for one participant on one criterion.
// A non-nil LockedAt means the judge has submitted the whole category.
type ScoreCell struct {
	JudgeID       string     `dynamodbav:"PK"`
	SortKey       string     `dynamodbav:"SK"`
	CategoryID    int        `dynamodbav:"CategoryID"`
	CriterionID   int        `dynamodbav:"CriterionID"`
	ParticipantID int        `dynamodbav:"ParticipantID"`
	Score         float64    `dynamodbav:"Score"`
	Rank          int        `dynamodbav:"Rank"`
	LockedAt      *time.Time `dynamodbav:"LockedAt"`
	UpdatedAt     time.Time  `dynamodbav:"UpdatedAt"`
}

// ScoreSortKey builds the composite sort key for a score cell. Upserts keyed
// by (PK, SK) converge to the last payload no matter how often they repeat.
func ScoreSortKey(categoryID, criterionID, participantID int) string {
	return fmt.Sprintf("cat#%d#crit#%d#p#%d", categoryID, criterionID, participantID)
}

const (
	ActivitySubmit      = "submit"
	ActivityUnlock      = "unlock"
	ActivityScoreChange = "score_change"
	ActivityRankChange  = "rank_change"
)

// ActivityRecord is an append-only audit row; never updated once written.
type ActivityRecord struct {
	ID         string    `dynamodbav:"PK"`
	JudgeID    string    `dynamodbav:"JudgeID"`
	CategoryID int       `dynamodbav:"CategoryID"`
	Action     string    `dynamodbav:"Action"`
	Detail     string    `dynamodbav:"Detail"`
	Timestamp  time.Time `dynamodbav:"Timestamp"`
}
