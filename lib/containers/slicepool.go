// Copyright (C) 2024  QuickLogic Corporation
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package containers holds small generic container helpers shared by
// the rest of the tree.
package containers

import "git.lukeshu.com/go/typedsync"

// SlicePool is a typed wrapper around a sync.Pool of slices. Get
// returns a slice of the requested length, reusing a pooled backing
// array when one large enough is available; Put returns a slice to
// the pool for later reuse.
type SlicePool[T any] struct {
	inner typedsync.Pool[[]T]
}

// Get returns a slice of length size, either freshly allocated or
// reused from the pool.
func (p *SlicePool[T]) Get(size int) []T {
	if size == 0 {
		return nil
	}
	ret, ok := p.inner.Get()
	if ok && cap(ret) >= size {
		ret = ret[:size]
	} else {
		ret = make([]T, size)
	}
	return ret
}

// Put returns slice to the pool. A nil slice is ignored.
func (p *SlicePool[T]) Put(slice []T) {
	if slice == nil {
		return
	}
	p.inner.Put(slice)
}
