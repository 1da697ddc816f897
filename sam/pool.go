// Copyright ©2012-2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "sync"

// recordPool recycles Record objects to cut allocation pressure in the
// streaming write path, where records are discarded as soon as a
// container has been serialized. The teacher's generated freepool
// (gtl/generate_randomized_freepool.py) isn't available in this module,
// so a plain sync.Pool stands in for it.
var recordPool = sync.Pool{New: func() interface{} { return new(Record) }}

// GetFromFreePool allocates a new empty Record object, recycling one
// from the pool when available.
func GetFromFreePool() *Record {
	rec := recordPool.Get().(*Record)
	*rec = Record{Scratch: rec.Scratch[:0]}
	return rec
}

// PutInFreePool returns r to the pool. The caller must guarantee that
// there are no outstanding references to r; its contents will be
// overwritten in the future.
func PutInFreePool(r *Record) {
	if r == nil {
		panic("sam: PutInFreePool(nil)")
	}
	recordPool.Put(r)
}
