package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core/academy"
)

// UpdateAttendance records the status of a student for a course on date (YYYY-MM-DD).
// Marking the same class-day again overwrites the earlier status.
func (s *Store) UpdateAttendance(ctx context.Context, sid, cid, date string, status academy.AttendanceStatus) (academy.AttendanceRecord, Outcome, error) {
	st, err := s.Student(sid)
	if err != nil {
		return academy.AttendanceRecord{}, "", err
	}
	rec := academy.AttendanceRecord{StudentID: st.ID, CourseID: cid, Date: date, Status: status}
	if err := rec.Validate(s.validate); err != nil {
		return academy.AttendanceRecord{}, "", err
	}

	mark := func(d *Snapshot, r academy.AttendanceRecord) {
		patchByID(d.Students, r.StudentID, studentID, func(v *academy.Student) {
			v.Attendance = academy.MarkAttendance(v.Attendance, r)
		})
	}

	if rid, ok := s.remoteID(ctx, st.ID); ok {
		r := rec
		r.StudentID = rid
		r.CourseID = s.resolve(cid)
		res := s.attendance.Upsert(ctx, r)
		if res.OK() {
			s.commit(func(d *Snapshot) { mark(d, res.Value) })
			s.settle(ctx)
			return res.Value, Synced, nil
		}
	}

	s.enqueue(&op{
		desc: "mark " + string(status) + " " + st.ID + " in " + cid + " on " + date,
		remote: func(ctx context.Context, ids map[string]string) (string, error) {
			r := rec
			r.StudentID = resolveID(ids, st.ID)
			r.CourseID = resolveID(ids, cid)
			return "", s.attendance.Upsert(ctx, r).Err
		},
		local: func(d *Snapshot, ids map[string]string) {
			r := rec
			r.StudentID = resolveID(ids, st.ID)
			mark(d, r)
		},
	})
	return rec, Queued, nil
}

func newTransactionID() string {
	return "TXN-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}

// RecordPayment takes amount off the pending fees of a student and books a paid FeePayment.
// The amount must be within (0, pendingFees].
func (s *Store) RecordPayment(ctx context.Context, sid string, amount int, method academy.PaymentMethod) (academy.FeePayment, Outcome, error) {
	st, err := s.Student(sid)
	if err != nil {
		return academy.FeePayment{}, "", err
	}
	payment, err := s.preparePayment(&st, amount, method)
	if err != nil {
		return academy.FeePayment{}, "", err
	}
	saved, outcome, err := s.recordPayment(ctx, st, payment)
	if err != nil {
		return academy.FeePayment{}, "", err
	}
	if outcome.IsSynced() {
		s.settle(ctx)
	}
	return saved, outcome, nil
}

func (s *Store) preparePayment(st *academy.Student, amount int, method academy.PaymentMethod) (academy.FeePayment, error) {
	if method == "" {
		method = academy.Cash
	}
	if err := academy.ApplyPayment(st, amount); err != nil {
		return academy.FeePayment{}, err
	}
	payment := academy.FeePayment{
		StudentID:     st.ID,
		Amount:        amount,
		Date:          s.today(),
		Method:        method,
		Status:        academy.Paid,
		TransactionID: newTransactionID(),
	}
	if err := payment.Validate(s.validate); err != nil {
		return academy.FeePayment{}, err
	}
	return payment, nil
}

// debit takes amount off the backend balance of student rid, as read at call time.
func (s *Store) debit(ctx context.Context, rid string, amount int) (academy.Student, error) {
	res := s.students.List(ctx, academy.Filter{academy.ColID: rid})
	if res.Err != nil {
		return academy.Student{}, res.Err
	}
	if len(res.Value) == 0 {
		return academy.Student{}, errors.Wrapf(academy.ErrNotFound, "student %s", rid)
	}
	cur := res.Value[0]
	if err := academy.ApplyPayment(&cur, amount); err != nil {
		return academy.Student{}, err
	}
	upd := s.students.Update(ctx, rid, academy.StudentPatch{PendingFees: academy.Int(cur.PendingFees)})
	return upd.Value, upd.Err
}

// deduct lowers the local balance of sid by amount.
func deduct(d *Snapshot, sid string, amount int) {
	patchByID(d.Students, sid, studentID, func(v *academy.Student) {
		v.PendingFees -= amount
		if v.PendingFees < 0 {
			v.PendingFees = 0
		}
	})
}

// recordPayment debits st then books payment. It does not settle.
// Errors are the ones the backend can never accept; remote failures queue the payment.
func (s *Store) recordPayment(ctx context.Context, st academy.Student, payment academy.FeePayment) (academy.FeePayment, Outcome, error) {
	book := func(d *Snapshot, p academy.FeePayment) {
		d.Payments = putByID(d.Payments, p, paymentID)
	}

	if rid, ok := s.remoteID(ctx, st.ID); ok {
		updated, err := s.debit(ctx, rid, payment.Amount)
		if err != nil && !IsRemoteError(err) {
			return academy.FeePayment{}, "", err
		}
		if err == nil {
			fees := academy.StudentPatch{PendingFees: academy.Int(updated.PendingFees)}
			s.commit(func(d *Snapshot) { s.studentEntity().patch(d, rid, fees) })

			p := payment
			p.StudentID = rid
			pres := s.payments.Create(ctx, p)
			if pres.OK() {
				s.commit(func(d *Snapshot) { book(d, pres.Value) })
				return pres.Value, Synced, nil
			}

			// the fees are saved, only the ledger entry waits
			localID := newLocalID()
			p.ID = localID
			s.enqueue(&op{
				desc:    "book payment " + localID,
				localID: localID,
				remote: func(ctx context.Context, ids map[string]string) (string, error) {
					row := payment
					row.StudentID = rid
					res := s.payments.Create(ctx, row)
					return res.Value.ID, res.Err
				},
				local: func(d *Snapshot, ids map[string]string) {
					row := p
					row.ID = resolveID(ids, localID)
					book(d, row)
				},
			})
			return p, Queued, nil
		}
	}

	localID := newLocalID()
	queued := payment
	queued.ID = localID
	var debited bool // guarded by mu; once set the backend balance already holds the debit
	s.enqueue(&op{
		desc:    "record payment " + localID + " of " + st.ID,
		localID: localID,
		remote: func(ctx context.Context, ids map[string]string) (string, error) {
			sid := resolveID(ids, st.ID)
			s.mu.RLock()
			done := debited
			s.mu.RUnlock()
			if !done {
				updated, err := s.debit(ctx, sid, payment.Amount)
				if err != nil {
					return "", err
				}
				fees := academy.StudentPatch{PendingFees: academy.Int(updated.PendingFees)}
				s.mu.Lock()
				debited = true
				s.studentEntity().patch(&s.base, sid, fees)
				s.rebuild()
				s.mu.Unlock()
			}
			row := payment
			row.StudentID = sid
			res := s.payments.Create(ctx, row)
			return res.Value.ID, res.Err
		},
		local: func(d *Snapshot, ids map[string]string) {
			sid := resolveID(ids, st.ID)
			if !debited {
				deduct(d, sid, payment.Amount)
			}
			row := queued
			row.ID = resolveID(ids, localID)
			row.StudentID = sid
			book(d, row)
		},
	})
	return queued, Queued, nil
}

// BulkResult reports a bulk payment.
type BulkResult struct {
	Payments []academy.FeePayment `json:"payments"`
	Synced   int                  `json:"synced"`
	Queued   int                  `json:"queued"`
	Skipped  []string             `json:"skipped"` // unknown students or nothing pending
}

// BulkPayment pays amount for each student, capped to what they owe.
func (s *Store) BulkPayment(ctx context.Context, sids []string, amount int, method academy.PaymentMethod) (BulkResult, error) {
	if amount <= 0 {
		return BulkResult{}, academy.ErrInvalidPayment
	}
	res := BulkResult{Payments: []academy.FeePayment{}, Skipped: []string{}}
	for _, sid := range sids {
		st, err := s.Student(sid)
		if err != nil {
			res.Skipped = append(res.Skipped, sid)
			continue
		}
		amt := academy.BulkAmount(st, amount)
		if amt <= 0 {
			res.Skipped = append(res.Skipped, sid)
			continue
		}
		payment, err := s.preparePayment(&st, amt, method)
		if err != nil {
			return res, err
		}

		saved, outcome, err := s.recordPayment(ctx, st, payment)
		if err != nil {
			// the backend balance is lower than the local one
			res.Skipped = append(res.Skipped, sid)
			continue
		}
		res.Payments = append(res.Payments, saved)
		if outcome.IsSynced() {
			res.Synced++
		} else {
			res.Queued++
		}
	}
	if res.Synced > 0 {
		s.settle(ctx)
	}
	return res, nil
}
