package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// AllWells selects every well in an irrigation analysis.
const AllWells = "total"

const (
	dateLayout   = "2006-01-02"
	allWellsName = "Tüm kuyular"
)

// AnalysisQuery selects the well and the window of an irrigation analysis.
// End is inclusive.
type AnalysisQuery struct {
	WellID string
	Start  time.Time
	End    time.Time
}

// AnalysisResult is the cost allocation of a well (or of every well) over a window.
type AnalysisResult struct {
	WellID       string            `json:"kuyu_id"`
	WellName     string            `json:"kuyu_adi"`
	Start        time.Time         `json:"baslangic"`
	End          time.Time         `json:"bitis"`
	TotalMinutes int               `json:"toplam_dakika"`
	TotalAmount  decimal.Decimal   `json:"toplam_tutar"`
	UnitCost     *decimal.Decimal  `json:"birim_maliyet"`
	InvoiceCount int               `json:"fatura_sayisi"`
	Owners       []OwnerAllocation `json:"sahipler"`
	Warning      string            `json:"uyari,omitempty"`
}

// ParseAnalysisQuery checks the raw query parameters. Dates are YYYY-MM-DD,
// in which case the end date covers its whole day, or RFC3339.
func ParseAnalysisQuery(wellID, start, end string) (AnalysisQuery, error) {
	wellID = strings.TrimSpace(wellID)
	if wellID == "" || start == "" || end == "" {
		return AnalysisQuery{}, fmt.Errorf("%w: kuyu_id, baslangic and bitis are required", ErrInvalidInput)
	}

	from, _, err := parseDate(start)
	if err != nil {
		return AnalysisQuery{}, fmt.Errorf("%w: baslangic: %v", ErrInvalidInput, err)
	}
	to, dateOnly, err := parseDate(end)
	if err != nil {
		return AnalysisQuery{}, fmt.Errorf("%w: bitis: %v", ErrInvalidInput, err)
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return AnalysisQuery{WellID: wellID, Start: from, End: to}, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected YYYY-MM-DD or RFC3339 date, got %q", s)
	}
	return t.UTC(), false, nil
}

// AnalysisService computes irrigation cost allocations.
type AnalysisService interface {
	// Analyze allocates the invoiced cost of the window to field owners.
	// Returns ErrNotFound if a single well is requested and does not exist.
	// A window whose start is after its end yields an empty result.
	Analyze(ctx context.Context, q AnalysisQuery) (*AnalysisResult, error)
}

type analysisService struct {
	store *repository.Store
	log   *logger.Logger
}

// NewAnalysisService creates a new instance of AnalysisService.
func NewAnalysisService(store *repository.Store, log *logger.Logger) AnalysisService {
	return &analysisService{
		store: store,
		log:   log.WithComponent("analysis"),
	}
}

func (s *analysisService) Analyze(ctx context.Context, q AnalysisQuery) (*AnalysisResult, error) {
	result := &AnalysisResult{
		WellID:      q.WellID,
		Start:       q.Start,
		End:         q.End,
		WellName:    allWellsName,
		TotalAmount: decimal.Zero,
		Owners:      []OwnerAllocation{},
	}

	if q.WellID != AllWells {
		well, err := s.store.Wells.FindByID(ctx, q.WellID)
		if err != nil {
			return nil, err
		}
		if well == nil {
			return nil, fmt.Errorf("%w: kuyu %s", ErrNotFound, q.WellID)
		}
		result.WellName = well.Name
	}

	if q.Start.After(q.End) {
		s.log.Debug("Analysis window is empty", logger.Fields{
			"kuyu_id":   q.WellID,
			"baslangic": q.Start,
			"bitis":     q.End,
		})
		return result, nil
	}

	var (
		records  []models.IrrigationRecord
		invoices []models.WellInvoice
		err      error
	)

	if q.WellID == AllWells {
		records, err = s.store.Irrigation.FindInWindow(ctx, q.Start, q.End, nil)
		if err != nil {
			return nil, err
		}
		invoices, err = s.firstInvoicePerWell(ctx, q)
		if err != nil {
			return nil, err
		}
	} else {
		records, invoices, err = s.singleWell(ctx, q)
		if err != nil {
			return nil, err
		}
	}

	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.Amount)
	}

	fieldIDs := distinctFieldIDs(records)
	ownerships, err := s.store.Ownerships.FindByFields(ctx, fieldIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range fieldIDs {
		if ownerships[id] == nil {
			s.log.Warn("Irrigated field has no ownership, its minutes are not attributed", logger.Fields{"tarla_id": id})
		}
	}

	alloc := Allocate(records, ownerships, total)
	result.TotalMinutes = alloc.TotalMinutes
	result.TotalAmount = alloc.TotalAmount
	result.InvoiceCount = len(invoices)
	result.Owners = alloc.Owners
	if alloc.UnitCost != nil {
		unit := alloc.UnitCost.Round(4)
		result.UnitCost = &unit
	} else {
		result.Warning = "Seçilen aralıkta sulama kaydı yok; birim maliyet hesaplanamadı"
		s.log.Warn("No irrigation minutes in window, unit cost undefined", logger.Fields{
			"kuyu_id":      q.WellID,
			"toplam_tutar": total.String(),
		})
	}

	s.log.Info("Irrigation analysis computed", logger.Fields{
		"kuyu_id":       q.WellID,
		"records":       len(records),
		"invoices":      len(invoices),
		"owners":        len(result.Owners),
		"toplam_dakika": result.TotalMinutes,
	})
	return result, nil
}

func (s *analysisService) singleWell(ctx context.Context, q AnalysisQuery) ([]models.IrrigationRecord, []models.WellInvoice, error) {
	fields, err := s.store.Fields.FindByWell(ctx, q.WellID)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		ids = append(ids, f.ID)
	}

	records, err := s.store.Irrigation.FindInWindow(ctx, q.Start, q.End, ids)
	if err != nil {
		return nil, nil, err
	}

	invoices, err := s.store.Invoices.FindOverlapping(ctx, q.WellID, q.Start, q.End)
	if err != nil {
		return nil, nil, err
	}
	if len(invoices) > 1 {
		s.log.Warn("Several invoices overlap the window, using the earliest", logger.Fields{
			"kuyu_id":  q.WellID,
			"invoices": len(invoices),
		})
		invoices = invoices[:1]
	}
	return records, invoices, nil
}

// firstInvoicePerWell keeps the earliest overlapping invoice of every well.
func (s *analysisService) firstInvoicePerWell(ctx context.Context, q AnalysisQuery) ([]models.WellInvoice, error) {
	all, err := s.store.Invoices.FindOverlapping(ctx, "", q.Start, q.End)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	out := make([]models.WellInvoice, 0, len(all))
	for _, inv := range all {
		if seen[inv.WellID] {
			continue
		}
		seen[inv.WellID] = true
		out = append(out, inv)
	}
	return out, nil
}

func distinctFieldIDs(records []models.IrrigationRecord) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, r := range records {
		if !seen[r.FieldID] {
			seen[r.FieldID] = true
			ids = append(ids, r.FieldID)
		}
	}
	return ids
}
