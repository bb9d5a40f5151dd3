package store

import (
	"context"
	"errors"

	"github.com/sreshtta/academy/core/academy"
)

type patcher[T any] interface {
	Apply(*T)
}

// entity describes how one collection is mutated, remotely and locally.
type entity[T any, P patcher[T]] struct {
	name  string
	repo  *Repository[T, P]
	list  func(d *Snapshot) *[]T
	idOf  func(T) string
	setID func(*T, string)
	clone func(T) T
	refs  func(v *T, ids map[string]string) // optional: maps the local ids v references
	onPut func(d *Snapshot, v *T)           // optional: completes v before it is stored
}

func (e entity[T, P]) put(d *Snapshot, v T) {
	if e.onPut != nil {
		e.onPut(d, &v)
	}
	l := e.list(d)
	*l = putByID(*l, v, e.idOf)
}

func (e entity[T, P]) remove(d *Snapshot, id string) {
	l := e.list(d)
	*l = removeByID(*l, id, e.idOf)
}

func (e entity[T, P]) patch(d *Snapshot, id string, p P) {
	patchByID(*e.list(d), id, e.idOf, p.Apply)
}

// deleted treats a row already gone as deleted.
func deleted(res Result[bool]) error {
	if res.Err != nil && errors.Is(res.Err, academy.ErrNotFound) {
		return nil
	}
	return res.Err
}

// create saves row remotely, or queues it under a local id.
// after, if set, runs on every collection set the row lands in.
func create[T any, P patcher[T]](ctx context.Context, s *Store, e entity[T, P], row T, after func(d *Snapshot, v T)) (T, Outcome) {
	remoteRow := func(ids map[string]string) T {
		v := e.clone(row)
		e.setID(&v, "")
		if e.refs != nil {
			e.refs(&v, ids)
		}
		return v
	}

	if s.drain(ctx) {
		res := e.repo.Create(ctx, remoteRow(s.idsCopy()))
		if res.OK() {
			created := res.Value
			s.commit(func(d *Snapshot) {
				e.put(d, created)
				if after != nil {
					after(d, created)
				}
			})
			s.settle(ctx)
			return created, Synced
		}
	}

	localID := newLocalID()
	e.setID(&row, localID)
	s.enqueue(&op{
		desc:    "create " + e.name + " " + localID,
		localID: localID,
		remote: func(ctx context.Context, ids map[string]string) (string, error) {
			res := e.repo.Create(ctx, remoteRow(ids))
			return e.idOf(res.Value), res.Err
		},
		local: func(d *Snapshot, ids map[string]string) {
			v := e.clone(row)
			e.setID(&v, resolveID(ids, localID))
			e.put(d, v)
			if after != nil {
				after(d, v)
			}
		},
	})
	return row, Queued
}

// update saves p remotely, or queues it. cur is the record with p already applied.
func update[T any, P patcher[T]](ctx context.Context, s *Store, e entity[T, P], cur T, p P, after func(d *Snapshot, id string)) (T, Outcome) {
	id := e.idOf(cur)
	if rid, ok := s.remoteID(ctx, id); ok {
		res := e.repo.Update(ctx, rid, p)
		if res.OK() {
			updated := res.Value
			s.commit(func(d *Snapshot) {
				e.put(d, updated)
				if after != nil {
					after(d, rid)
				}
			})
			s.settle(ctx)
			return updated, Synced
		}
	}

	s.enqueue(&op{
		desc: "update " + e.name + " " + id,
		remote: func(ctx context.Context, ids map[string]string) (string, error) {
			return "", e.repo.Update(ctx, resolveID(ids, id), p).Err
		},
		local: func(d *Snapshot, ids map[string]string) {
			rid := resolveID(ids, id)
			e.patch(d, rid, p)
			if after != nil {
				after(d, rid)
			}
		},
	})
	return cur, Queued
}

// remove deletes the record remotely, or queues the delete.
func remove[T any, P patcher[T]](ctx context.Context, s *Store, e entity[T, P], id string) Outcome {
	if rid, ok := s.remoteID(ctx, id); ok {
		if err := deleted(e.repo.Delete(ctx, rid)); err == nil {
			s.commit(func(d *Snapshot) { e.remove(d, rid) })
			s.settle(ctx)
			return Synced
		}
	}

	s.enqueue(&op{
		desc: "delete " + e.name + " " + id,
		remote: func(ctx context.Context, ids map[string]string) (string, error) {
			return "", deleted(e.repo.Delete(ctx, resolveID(ids, id)))
		},
		local: func(d *Snapshot, ids map[string]string) {
			e.remove(d, resolveID(ids, id))
		},
	})
	return Queued
}
