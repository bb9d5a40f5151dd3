package store_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/core/store"
	"github.com/sreshtta/academy/storage/database/dummy"
	testutil "github.com/sreshtta/academy/tests"
)

func TestStore_RecordPayment(t *testing.T) {
	t.Run("online", func(t *testing.T) {
		s, db := testutil.NewFixtureStore(t)
		ctx := testutil.Context(t)

		p, outcome, err := s.RecordPayment(ctx, "1", 2000, "")
		require.NoError(t, err)
		assert.Equal(t, store.Synced, outcome)
		assert.Equal(t, academy.Cash, p.Method)
		assert.Equal(t, academy.Paid, p.Status)
		assert.Equal(t, "2024-03-20", p.Date)
		assert.True(t, strings.HasPrefix(p.TransactionID, "TXN-"))
		assert.Len(t, p.TransactionID, 16)

		st, err := s.Student("1")
		require.NoError(t, err)
		assert.Equal(t, 3000, st.PendingFees)
		assert.Equal(t, 20000, st.TotalFees)
		assert.Len(t, s.Payments("1"), 1)

		rows, err := db.Students().Select(ctx, academy.Filter{academy.ColID: "1"})
		require.NoError(t, err)
		assert.Equal(t, 3000, rows[0].PendingFees)
		booked, err := db.Payments().Select(ctx, academy.Filter{academy.ColStudentID: "1"})
		require.NoError(t, err)
		assert.Len(t, booked, 1)
	})

	t.Run("invalid amounts", func(t *testing.T) {
		s, _ := testutil.NewFixtureStore(t)
		ctx := testutil.Context(t)

		for _, amount := range []int{0, -5, 5001} {
			_, _, err := s.RecordPayment(ctx, "1", amount, academy.UPI)
			assert.ErrorIs(t, err, academy.ErrInvalidPayment, amount)
		}
		_, _, err := s.RecordPayment(ctx, "5", 1, academy.UPI)
		assert.ErrorIs(t, err, academy.ErrInvalidPayment)
		_, _, err = s.RecordPayment(ctx, "ghost", 1, academy.UPI)
		assert.ErrorIs(t, err, academy.ErrNotFound)
	})

	t.Run("offline then sync", func(t *testing.T) {
		s, db := testutil.NewFixtureStore(t)
		ctx := testutil.Context(t)
		db.SetOffline(errOffline)

		p, outcome, err := s.RecordPayment(ctx, "6", 3000, academy.Card)
		require.NoError(t, err)
		assert.Equal(t, store.Queued, outcome)
		assert.True(t, store.IsLocalID(p.ID))
		st, err := s.Student("6")
		require.NoError(t, err)
		assert.Equal(t, 0, st.PendingFees)
		assert.Equal(t, academy.Paid, academy.FeeStatus(st))

		db.SetOffline(nil)
		_, err = s.Sync(ctx)
		require.NoError(t, err)

		rows, err := db.Students().Select(ctx, academy.Filter{academy.ColID: "6"})
		require.NoError(t, err)
		assert.Equal(t, 0, rows[0].PendingFees)
		payments := s.Payments("6")
		require.Len(t, payments, 1)
		assert.False(t, store.IsLocalID(payments[0].ID))
		assert.Equal(t, academy.Card, payments[0].Method)
	})
}

func TestStore_BulkPayment(t *testing.T) {
	s, db := testutil.NewFixtureStore(t)
	ctx := testutil.Context(t)

	_, err := s.BulkPayment(ctx, []string{"1"}, 0, academy.Cash)
	assert.ErrorIs(t, err, academy.ErrInvalidPayment)

	res, err := s.BulkPayment(ctx, []string{"1", "5", "6", "ghost", "8"}, 2500, academy.Online)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Synced)
	assert.Equal(t, 0, res.Queued)
	assert.Equal(t, []string{"5", "ghost"}, res.Skipped)
	require.Len(t, res.Payments, 3)
	assert.Equal(t, 2500, res.Payments[0].Amount)
	assert.Equal(t, 2500, res.Payments[1].Amount)
	assert.Equal(t, 2000, res.Payments[2].Amount) // capped to what is owed

	pending := map[string]int{}
	for _, st := range s.Students(academy.StudentQuery{}, nil) {
		pending[st.ID] = st.PendingFees
	}
	assert.Equal(t, map[string]int{"1": 2500, "5": 0, "6": 500, "7": 0, "8": 0}, pending)

	booked, err := db.Payments().Select(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, booked, 3)

	t.Run("offline", func(t *testing.T) {
		db.SetOffline(errOffline)
		res, err := s.BulkPayment(ctx, []string{"1", "6"}, 500, academy.Cash)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Synced)
		assert.Equal(t, 2, res.Queued)
		assert.Len(t, s.SyncStatus().Pending, 2)
	})
}

func TestStore_UpdateAttendance(t *testing.T) {
	s, db := testutil.NewFixtureStore(t)
	ctx := testutil.Context(t)

	rec, outcome, err := s.UpdateAttendance(ctx, "8", "1", "2024-03-20", academy.Present)
	require.NoError(t, err)
	assert.Equal(t, store.Synced, outcome)
	assert.NotEmpty(t, rec.ID)

	_, _, err = s.UpdateAttendance(ctx, "8", "1", "2024-03-20", academy.Late)
	require.NoError(t, err)

	remote, err := db.Attendance().Select(ctx, academy.Filter{academy.ColStudentID: "8"})
	require.NoError(t, err)
	assert.Len(t, remote, 4)

	st, err := s.Student("8")
	require.NoError(t, err)
	require.Len(t, st.Attendance, 4)
	var marked int
	for _, r := range st.Attendance {
		if r.Date == "2024-03-20" {
			marked++
			assert.Equal(t, academy.Late, r.Status)
			assert.Equal(t, rec.ID, r.ID)
		}
	}
	assert.Equal(t, 1, marked)

	_, _, err = s.UpdateAttendance(ctx, "8", "1", "20-03-2024", academy.Late)
	assert.Error(t, err)
	_, _, err = s.UpdateAttendance(ctx, "8", "1", "2024-03-21", "excused")
	assert.Error(t, err)

	t.Run("offline", func(t *testing.T) {
		db.SetOffline(errOffline)
		_, outcome, err := s.UpdateAttendance(ctx, "8", "1", "2024-03-22", academy.Absent)
		require.NoError(t, err)
		assert.Equal(t, store.Queued, outcome)
		st, err := s.Student("8")
		require.NoError(t, err)
		assert.Len(t, st.Attendance, 5)

		db.SetOffline(nil)
		report, err := s.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Replayed)
		remote, err := db.Attendance().Select(ctx, academy.Filter{academy.ColStudentID: "8"})
		require.NoError(t, err)
		assert.Len(t, remote, 5)
	})
}

func bookedSum(t *testing.T, db *dummydb.DB, sid string) int {
	t.Helper()
	rows, err := db.Payments().Select(testutil.Context(t), academy.Filter{academy.ColStudentID: sid})
	require.NoError(t, err)
	var sum int
	for _, p := range rows {
		sum += p.Amount
	}
	return sum
}

func remotePending(t *testing.T, db *dummydb.DB, sid string) int {
	t.Helper()
	rows, err := db.Students().Select(testutil.Context(t), academy.Filter{academy.ColID: sid})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	return rows[0].PendingFees
}

func TestStore_RecordPaymentAfterQueued(t *testing.T) {
	t.Run("queued then synced", func(t *testing.T) {
		s, db := testutil.NewFixtureStore(t)
		ctx := testutil.Context(t)

		db.SetOffline(errOffline)
		_, outcome, err := s.RecordPayment(ctx, "1", 1000, academy.Cash)
		require.NoError(t, err)
		require.Equal(t, store.Queued, outcome)

		db.SetOffline(nil)
		_, outcome, err = s.RecordPayment(ctx, "1", 500, academy.UPI)
		require.NoError(t, err)
		assert.Equal(t, store.Synced, outcome)

		st, err := s.Student("1")
		require.NoError(t, err)
		assert.Equal(t, 3500, st.PendingFees)
		assert.Equal(t, 3500, remotePending(t, db, "1"))
		assert.Equal(t, 5000-3500, bookedSum(t, db, "1"))
		assert.Len(t, s.Payments("1"), 2)
	})

	t.Run("balance changed before replay", func(t *testing.T) {
		s, db := testutil.NewFixtureStore(t)
		ctx := testutil.Context(t)

		db.SetOffline(errOffline)
		_, _, err := s.RecordPayment(ctx, "1", 1000, academy.Cash)
		require.NoError(t, err)

		// another client pays 500 meanwhile
		db.SetOffline(nil)
		_, err = db.Students().Update(ctx, "1", academy.StudentPatch{PendingFees: academy.Int(4500)})
		require.NoError(t, err)
		_, err = db.Payments().Insert(ctx, academy.FeePayment{StudentID: "1", Amount: 500, Date: "2024-03-19", Method: academy.Cash, Status: academy.Paid})
		require.NoError(t, err)

		report, err := s.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Replayed)
		assert.Equal(t, 3500, remotePending(t, db, "1"))
		assert.Equal(t, 5000-3500, bookedSum(t, db, "1"))
		st, err := s.Student("1")
		require.NoError(t, err)
		assert.Equal(t, 3500, st.PendingFees)
	})

	t.Run("replay above the balance is dropped", func(t *testing.T) {
		s, db := testutil.NewFixtureStore(t)
		ctx := testutil.Context(t)

		db.SetOffline(errOffline)
		_, _, err := s.RecordPayment(ctx, "6", 3000, academy.Cash)
		require.NoError(t, err)

		db.SetOffline(nil)
		_, err = db.Students().Update(ctx, "6", academy.StudentPatch{PendingFees: academy.Int(1000)})
		require.NoError(t, err)

		report, err := s.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, store.SyncReport{Replayed: 0, Pending: 0}, report)
		assert.Equal(t, 1000, remotePending(t, db, "6"))
		assert.Zero(t, bookedSum(t, db, "6"))
		st, err := s.Student("6")
		require.NoError(t, err)
		assert.Equal(t, 1000, st.PendingFees)
	})
}
