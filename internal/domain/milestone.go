package domain

import "time"

type MilestoneStatus string

const (
	MilestonePending  MilestoneStatus = "pending"
	MilestoneFunded   MilestoneStatus = "funded"
	MilestoneReleased MilestoneStatus = "released"
	MilestoneRefunded MilestoneStatus = "refunded"
)

type Milestone struct {
	ID          string
	ContractID  string
	Title       string
	Description string
	Amount      int64
	DueDate     *time.Time
	Position    int
	Status      MilestoneStatus
	ReleasedAt  *time.Time
	CreatedAt   time.Time
}

func SumMilestones(milestones []*Milestone) int64 {
	var total int64
	for _, m := range milestones {
		total += m.Amount
	}
	return total
}
