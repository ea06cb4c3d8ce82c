package aggregate

import "github.com/spec-kit/complaint-service/internal/domain"

// GroupBy selects the rollup dimension.
type GroupBy string

const (
	GroupByDepartment GroupBy = "department"
	GroupByTechnician GroupBy = "technician"
	GroupByFloor      GroupBy = "floor"
)

// UnassignedKey buckets tickets whose grouping value is absent: no
// assignee for the technician dimension, no floor for the floor
// dimension. They are counted, never dropped.
const UnassignedKey = "unassigned"

// Counts is the per-group rollup. Total is always the sum of the four
// status fields.
type Counts struct {
	Total     int `json:"total"`
	Open      int `json:"open"`
	Assigned  int `json:"assigned"`
	Completed int `json:"completed"`
	Rejected  int `json:"rejected"`
}

// CompletionRate is completed over total, 0 for an empty group.
func (c Counts) CompletionRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Total)
}

func (c *Counts) add(status domain.TicketStatus) {
	c.Total++
	switch status {
	case domain.TicketStatusAssigned:
		c.Assigned++
	case domain.TicketStatusCompleted:
		c.Completed++
	case domain.TicketStatusRejected:
		c.Rejected++
	default:
		c.Open++
	}
}

// Aggregate folds a ticket snapshot into per-group counts in one pass.
// The input is never mutated; repeated calls over the same snapshot
// return identical results.
func Aggregate(tickets []domain.Ticket, groupBy GroupBy) map[string]Counts {
	result := make(map[string]Counts)
	for i := range tickets {
		key := groupKey(&tickets[i], groupBy)
		counts := result[key]
		counts.add(tickets[i].Status)
		result[key] = counts
	}
	return result
}

// Overall rolls the whole snapshot into a single Counts.
func Overall(tickets []domain.Ticket) Counts {
	var counts Counts
	for i := range tickets {
		counts.add(tickets[i].Status)
	}
	return counts
}

func groupKey(ticket *domain.Ticket, groupBy GroupBy) string {
	switch groupBy {
	case GroupByTechnician:
		if ticket.AssigneeID == nil || *ticket.AssigneeID == "" {
			return UnassignedKey
		}
		return *ticket.AssigneeID
	case GroupByFloor:
		if ticket.Floor == nil || *ticket.Floor == "" {
			return UnassignedKey
		}
		return *ticket.Floor
	default:
		return ticket.DepartmentID
	}
}
