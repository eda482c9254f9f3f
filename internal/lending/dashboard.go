package lending

import (
	"sort"
	"time"
)

const (
	topItemsLimit       = 5
	recentActivityLimit = 5
)

type ItemCount struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type Dashboard struct {
	TotalEquipment           int         `json:"totalEquipment"`
	ItemsOnLoan              int         `json:"itemsOnLoan"`
	PendingRequests          int         `json:"pendingRequests"`
	OverdueItems             int         `json:"overdueItems"`
	MostBorrowedItems        []ItemCount `json:"mostBorrowedItems"`
	EquipmentStatusBreakdown []ItemCount `json:"equipmentStatusBreakdown"`
	RecentActivity           []LogEntry  `json:"recentActivity"`
}

// Available is total equipment minus items on loan. It goes negative when more
// entries are on loan than catalog items exist; loans are not tied to units.
func (d Dashboard) Available() int {
	return d.TotalEquipment - d.ItemsOnLoan
}

// Aggregate derives the dashboard from a snapshot. logs are expected sorted by
// borrow date descending; RecentActivity takes the head without re-sorting.
func Aggregate(logs []LogEntry, equipment []EquipmentItem, now time.Time) Dashboard {
	d := Dashboard{TotalEquipment: len(equipment)}
	for _, e := range logs {
		switch e.Status {
		case StatusBorrowed:
			d.ItemsOnLoan++
			if !e.ReturnDate.IsZero() && e.ReturnDate.Before(now) {
				d.OverdueItems++
			}
		case StatusPending:
			d.PendingRequests++
		}
	}

	d.MostBorrowedItems = MostBorrowed(logs, topItemsLimit)
	d.EquipmentStatusBreakdown = []ItemCount{
		{Label: "Available", Value: d.Available()},
		{Label: "On Loan", Value: d.ItemsOnLoan},
	}

	n := min(len(logs), recentActivityLimit)
	d.RecentActivity = make([]LogEntry, n)
	copy(d.RecentActivity, logs[:n])
	return d
}

// MostBorrowed counts entries per item name, highest first. Ties keep the order
// in which each item first appears in logs.
func MostBorrowed(logs []LogEntry, limit int) []ItemCount {
	index := make(map[string]int)
	counts := []ItemCount{}
	for _, e := range logs {
		i, ok := index[e.Item]
		if !ok {
			i = len(counts)
			index[e.Item] = i
			counts = append(counts, ItemCount{Label: e.Item})
		}
		counts[i].Value++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Value > counts[j].Value
	})
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}
