package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/stwalsh4118/ciftlik/internal/models"
)

var hundred = decimal.NewFromInt(100)

// OwnerAllocation is one owner's share of the irrigation in an analysis window.
type OwnerAllocation struct {
	OwnerID    string          `json:"sahip_id"`
	Owner      *models.Owner   `json:"sahip,omitempty"`
	Minutes    decimal.Decimal `json:"toplam_dakika"`
	Cost       decimal.Decimal `json:"toplam_maliyet"`
	FieldNames []string        `json:"tarla_adlari"`
}

// Allocation is the outcome of distributing invoiced cost over irrigation minutes.
// UnitCost is nil when no minutes were logged.
type Allocation struct {
	TotalMinutes int
	TotalAmount  decimal.Decimal
	UnitCost     *decimal.Decimal
	Owners       []OwnerAllocation
}

// AttributeMinutes splits the minutes of one record between the owners of
// its field: minutes × share / 100. Owners are keyed by id.
func AttributeMinutes(record models.IrrigationRecord, ownership *models.FieldOwnership) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	if ownership == nil {
		return out
	}

	minutes := decimal.NewFromInt(int64(record.Duration))
	for _, share := range ownership.Shares {
		attributed := minutes.Mul(share.Percentage).Div(hundred)
		out[share.OwnerID] = out[share.OwnerID].Add(attributed)
	}
	return out
}

// Allocate distributes totalAmount over the irrigation records. ownerships is
// keyed by field id; records of fields without an ownership count toward the
// total minutes but are attributed to nobody.
func Allocate(records []models.IrrigationRecord, ownerships map[string]*models.FieldOwnership, totalAmount decimal.Decimal) Allocation {
	result := Allocation{TotalAmount: totalAmount, Owners: []OwnerAllocation{}}

	for _, r := range records {
		result.TotalMinutes += r.Duration
	}
	if result.TotalMinutes > 0 {
		unit := totalAmount.Div(decimal.NewFromInt(int64(result.TotalMinutes)))
		result.UnitCost = &unit
	}

	type accumulator struct {
		alloc  OwnerAllocation
		fields map[string]struct{}
	}
	byOwner := make(map[string]*accumulator)

	for _, r := range records {
		ownership := ownerships[r.FieldID]
		if ownership == nil {
			continue
		}

		fieldName := r.FieldID
		if r.Field != nil && r.Field.Name != "" {
			fieldName = r.Field.Name
		}

		owners := make(map[string]*models.Owner, len(ownership.Shares))
		for _, share := range ownership.Shares {
			owners[share.OwnerID] = share.Owner
		}

		for ownerID, minutes := range AttributeMinutes(r, ownership) {
			acc, ok := byOwner[ownerID]
			if !ok {
				acc = &accumulator{
					alloc:  OwnerAllocation{OwnerID: ownerID, Owner: owners[ownerID]},
					fields: make(map[string]struct{}),
				}
				byOwner[ownerID] = acc
			}
			acc.alloc.Minutes = acc.alloc.Minutes.Add(minutes)
			if result.UnitCost != nil {
				acc.alloc.Cost = acc.alloc.Cost.Add(minutes.Mul(*result.UnitCost))
			}
			acc.fields[fieldName] = struct{}{}
		}
	}

	for _, acc := range byOwner {
		a := acc.alloc
		a.Minutes = a.Minutes.Round(2)
		a.Cost = a.Cost.Round(2)
		a.FieldNames = make([]string, 0, len(acc.fields))
		for name := range acc.fields {
			a.FieldNames = append(a.FieldNames, name)
		}
		sort.Strings(a.FieldNames)
		result.Owners = append(result.Owners, a)
	}

	sort.Slice(result.Owners, func(i, j int) bool {
		ni, nj := ownerName(result.Owners[i]), ownerName(result.Owners[j])
		if ni != nj {
			return ni < nj
		}
		return result.Owners[i].OwnerID < result.Owners[j].OwnerID
	})
	return result
}

func ownerName(a OwnerAllocation) string {
	if a.Owner != nil {
		return a.Owner.Name
	}
	return a.OwnerID
}
