package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/ciftlik/internal/database"
	"github.com/stwalsh4118/ciftlik/internal/models"
)

// setupTestStore opens a migrated in-memory database.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))

	return New(db)
}

func at(day, hour int) time.Time {
	return time.Date(2024, time.May, day, hour, 0, 0, 0, time.UTC)
}

func TestRepository_CRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	owner := &models.Owner{Name: "Ali", Type: models.OwnerIndividual}
	require.NoError(t, store.Owners.Create(ctx, owner))
	require.NotEmpty(t, owner.ID)

	got, err := store.Owners.FindByID(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ali", got.Name)

	got.Name = "Ali Veli"
	require.NoError(t, store.Owners.Update(ctx, got))

	got, err = store.Owners.FindByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ali Veli", got.Name)
	assert.False(t, got.CreatedAt.IsZero(), "update must not clear created_at")

	deleted, err := store.Owners.Delete(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Owners.Delete(ctx, owner.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.Wells.FindByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_FindWithFilterAndPreload(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	well := &models.Well{Name: "Kuyu 1"}
	require.NoError(t, store.Wells.Create(ctx, well))

	f1 := &models.Field{Name: "B Tarlası", Area: 10, Status: models.FieldActive, WellID: &well.ID}
	f2 := &models.Field{Name: "A Tarlası", Area: 5, Status: models.FieldActive, WellID: &well.ID}
	f3 := &models.Field{Name: "Kuru", Area: 3, Status: models.FieldFallow}
	for _, f := range []*models.Field{f1, f2, f3} {
		require.NoError(t, store.Fields.Create(ctx, f))
	}

	fields, err := store.Fields.FindByWell(ctx, well.ID)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "A Tarlası", fields[0].Name)

	fields, err = store.Fields.Find(ctx, Filter{
		Where:   map[string]interface{}{"well_id": well.ID},
		Preload: []string{"Well"},
	})
	require.NoError(t, err)
	require.Len(t, fields, 2)
	require.NotNil(t, fields[0].Well)
	assert.Equal(t, "Kuyu 1", fields[0].Well.Name)

	empty, err := store.Fields.Find(ctx, Filter{Where: map[string]interface{}{"well_id": "yok"}})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestOwnershipRepository_SaveReplacesShares(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := &models.Owner{Name: "A", Type: models.OwnerIndividual}
	b := &models.Owner{Name: "B", Type: models.OwnerIndividual}
	require.NoError(t, store.Owners.Create(ctx, a))
	require.NoError(t, store.Owners.Create(ctx, b))

	ownership := &models.FieldOwnership{
		FieldID: "f1",
		Shares: []models.OwnershipShare{
			{OwnerID: a.ID, Percentage: decimal.NewFromInt(50)},
			{OwnerID: b.ID, Percentage: decimal.NewFromInt(50)},
		},
	}
	require.NoError(t, store.Ownerships.Save(ctx, ownership))

	ownership.Shares = []models.OwnershipShare{{OwnerID: a.ID, Percentage: decimal.NewFromInt(100)}}
	require.NoError(t, store.Ownerships.Save(ctx, ownership))

	got, err := store.Ownerships.FindByField(ctx, "f1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Shares, 1)
	assert.Equal(t, a.ID, got.Shares[0].OwnerID)
	require.NotNil(t, got.Shares[0].Owner)
	assert.Equal(t, "A", got.Shares[0].Owner.Name)

	byField, err := store.Ownerships.FindByFields(ctx, []string{"f1", "f2"})
	require.NoError(t, err)
	assert.Len(t, byField, 1)

	deleted, err := store.Ownerships.DeleteWithShares(ctx, ownership.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var shares int64
	require.NoError(t, store.db.Model(&models.OwnershipShare{}).Count(&shares).Error)
	assert.Zero(t, shares)
}

func TestIrrigationRepository_FindInWindow(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	records := []*models.IrrigationRecord{
		{FieldID: "f1", WellID: "w1", StartTime: at(1, 8), Duration: 60},
		{FieldID: "f2", WellID: "w1", StartTime: at(10, 8), Duration: 30},
		{FieldID: "f1", WellID: "w1", StartTime: at(20, 8), Duration: 90},
	}
	for _, r := range records {
		r.DeriveEndTime()
		require.NoError(t, store.Irrigation.Create(ctx, r))
	}

	all, err := store.Irrigation.FindInWindow(ctx, at(1, 0), at(31, 0), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := store.Irrigation.FindInWindow(ctx, at(5, 0), at(31, 0), []string{"f1"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, 90, some[0].Duration)

	inclusive, err := store.Irrigation.FindInWindow(ctx, at(1, 8), at(10, 8), nil)
	require.NoError(t, err)
	assert.Len(t, inclusive, 2)

	none, err := store.Irrigation.FindInWindow(ctx, at(1, 0), at(31, 0), []string{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInvoiceRepository_FindOverlappingAndSetPaid(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	march := &models.WellInvoice{WellID: "w1", StartDate: at(1, 0).AddDate(0, -2, 0), EndDate: at(1, 0).AddDate(0, -1, -1), Amount: decimal.NewFromInt(100)}
	may := &models.WellInvoice{WellID: "w1", StartDate: at(1, 0), EndDate: at(31, 0), Amount: decimal.NewFromInt(300)}
	other := &models.WellInvoice{WellID: "w2", StartDate: at(15, 0), EndDate: at(31, 0), Amount: decimal.NewFromInt(50)}
	for _, inv := range []*models.WellInvoice{march, may, other} {
		require.NoError(t, store.Invoices.Create(ctx, inv))
	}

	got, err := store.Invoices.FindOverlapping(ctx, "w1", at(10, 0), at(20, 0))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, may.ID, got[0].ID)

	got, err = store.Invoices.FindOverlapping(ctx, "", at(10, 0), at(20, 0))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	changed, err := store.Invoices.SetPaid(ctx, may.ID, true)
	require.NoError(t, err)
	assert.True(t, changed)
	reloaded, err := store.Invoices.FindByID(ctx, may.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Paid)

	changed, err = store.Invoices.SetPaid(ctx, may.ID, true)
	require.NoError(t, err)
	assert.False(t, changed, "a paid invoice cannot be paid again")

	changed, err = store.Invoices.SetPaid(ctx, may.ID, false)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestDebtRepository_Participants(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	pid := "p1"
	debts := []*models.MutualDebt{
		{PaymentID: &pid, DebtorID: "a", CreditorID: "b", Amount: decimal.NewFromInt(10), Status: models.DebtUnpaid},
		{PaymentID: &pid, DebtorID: "c", CreditorID: "b", Amount: decimal.NewFromInt(20), Status: models.DebtUnpaid},
		{DebtorID: "b", CreditorID: "c", Amount: decimal.NewFromInt(5), Status: models.DebtPaid},
	}
	for _, d := range debts {
		require.NoError(t, store.Debts.Create(ctx, d))
	}

	forB, err := store.Debts.FindByParticipant(ctx, "b", "")
	require.NoError(t, err)
	assert.Len(t, forB, 3)

	paidForC, err := store.Debts.FindByParticipant(ctx, "c", models.DebtPaid)
	require.NoError(t, err)
	assert.Len(t, paidForC, 1)

	fromPayment, err := store.Debts.FindByPayment(ctx, pid)
	require.NoError(t, err)
	assert.Len(t, fromPayment, 2)

	n, err := store.Debts.DeleteByPayment(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx *Store) error {
		if err := tx.Owners.Create(ctx, &models.Owner{Name: "Geçici", Type: models.OwnerIndividual}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	owners, err := store.Owners.Find(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, owners)

	err = store.Transaction(ctx, func(tx *Store) error {
		return tx.Owners.Create(ctx, &models.Owner{Name: "Kalıcı", Type: models.OwnerIndividual})
	})
	require.NoError(t, err)

	owners, err = store.Owners.Find(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, owners, 1)
}

func TestAccountRepositories(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := &models.User{Email: "ayse@example.com", Role: models.RoleUser, PasswordHash: "x"}
	require.NoError(t, store.Users.Create(ctx, user))

	found, err := store.Users.FindByEmail(ctx, " AYSE@example.com ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	err = store.Users.Create(ctx, &models.User{Email: "ayse@example.com", Role: models.RoleUser, PasswordHash: "y"})
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	owner := &models.Owner{Name: "Ayşe", Type: models.OwnerIndividual, UserID: &user.ID}
	require.NoError(t, store.Owners.Create(ctx, owner))
	linked, err := store.Owners.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, linked)
	assert.Equal(t, owner.ID, linked.ID)

	now := time.Now().UTC()
	require.NoError(t, store.Sessions.Create(ctx, &models.Session{UserID: user.ID, Token: "live", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Sessions.Create(ctx, &models.Session{UserID: user.ID, Token: "old", ExpiresAt: now.Add(-time.Hour)}))

	n, err := store.Sessions.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	s, err := store.Sessions.FindByToken(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NoError(t, store.Sessions.DeleteByToken(ctx, "live"))
	s, err = store.Sessions.FindByToken(ctx, "live")
	require.NoError(t, err)
	assert.Nil(t, s)

	note := &models.Notification{UserID: user.ID, Title: "Borç"}
	require.NoError(t, store.Notifications.Create(ctx, note))
	ok, err := store.Notifications.MarkRead(ctx, note.ID, "baskasi")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = store.Notifications.MarkRead(ctx, note.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	unread, err := store.Notifications.FindByUser(ctx, user.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}
