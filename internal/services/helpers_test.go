package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/ciftlik/internal/auth"
	"github.com/stwalsh4118/ciftlik/internal/database"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/notify"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// setupStore opens a migrated in-memory database.
func setupStore(t *testing.T) *repository.Store {
	t.Helper()

	db, err := database.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))

	return repository.New(db)
}

// fixture creates documents with terse helpers.
type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *repository.Store
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, ctx: context.Background(), store: setupStore(t)}
}

func (f *fixture) user(email, role string) *models.User {
	u := &models.User{Email: email, Name: email, Role: role, PasswordHash: "-"}
	require.NoError(f.t, f.store.Users.Create(f.ctx, u))
	return u
}

func (f *fixture) owner(name string, user *models.User) *models.Owner {
	o := &models.Owner{Name: name, Type: models.OwnerIndividual}
	if user != nil {
		o.UserID = &user.ID
	}
	require.NoError(f.t, f.store.Owners.Create(f.ctx, o))
	return o
}

func (f *fixture) season(name string) *models.Season {
	s := &models.Season{Name: name, StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31), Active: true}
	require.NoError(f.t, f.store.Seasons.Create(f.ctx, s))
	return s
}

func (f *fixture) well(name string, season *models.Season) *models.Well {
	w := &models.Well{Name: name}
	if season != nil {
		w.SeasonID = &season.ID
	}
	require.NoError(f.t, f.store.Wells.Create(f.ctx, w))
	return w
}

func (f *fixture) field(name string, well *models.Well) *models.Field {
	fl := &models.Field{Name: name, Area: 10, Status: models.FieldActive}
	if well != nil {
		fl.WellID = &well.ID
	}
	require.NoError(f.t, f.store.Fields.Create(f.ctx, fl))
	return fl
}

// shares gives each owner the paired percentage of the field.
func (f *fixture) shares(field *models.Field, owners []*models.Owner, percents []int64) {
	o := &models.FieldOwnership{FieldID: field.ID}
	for i, owner := range owners {
		o.Shares = append(o.Shares, models.OwnershipShare{OwnerID: owner.ID, Percentage: decimal.NewFromInt(percents[i])})
	}
	require.NoError(f.t, f.store.Ownerships.Save(f.ctx, o))
}

func (f *fixture) irrigation(field *models.Field, well *models.Well, start time.Time, minutes int) {
	r := &models.IrrigationRecord{FieldID: field.ID, WellID: well.ID, StartTime: start, Duration: minutes}
	r.DeriveEndTime()
	require.NoError(f.t, f.store.Irrigation.Create(f.ctx, r))
}

func (f *fixture) invoice(well *models.Well, start, end time.Time, amount int64) *models.WellInvoice {
	inv := &models.WellInvoice{WellID: well.ID, StartDate: start, EndDate: end, Amount: decimal.NewFromInt(amount)}
	require.NoError(f.t, f.store.Invoices.Create(f.ctx, inv))
	return inv
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func principal(u *models.User) auth.Context {
	return auth.NewPrincipal(u)
}

// recordingNotifier keeps every notification it is sent.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recordingNotifier) Send(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) all() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
