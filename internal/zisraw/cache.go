// Copyright 2025 Scott Friedman
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package zisraw

import (
	"sync"
	"time"
)

// CachedValue memoizes the result of a single producer call keyed on a
// fixed source value. It never evicts: once the producer succeeds, the
// stored value is returned forever after. A failed call is not cached, so
// the next Get retries the producer.
type CachedValue[S any, T any] struct {
	mu       sync.Mutex
	source   S
	producer func(S) (T, error)
	store    *T
	lastUse  time.Time
}

// NewCachedValue builds a CachedValue bound to source. Get invokes producer
// until one call succeeds, and never again after that.
func NewCachedValue[S any, T any](source S, producer func(S) (T, error)) *CachedValue[S, T] {
	return &CachedValue[S, T]{source: source, producer: producer}
}

// Get returns the cached value, producing it on first (successful) call.
func (c *CachedValue[S, T]) Get() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastUse = time.Now()
	if c.store != nil {
		return *c.store, nil
	}

	value, err := c.producer(c.source)
	if err != nil {
		var zero T
		return zero, err
	}

	c.store = &value
	return value, nil
}

// LastUse reports when Get was last called, successful or not.
func (c *CachedValue[S, T]) LastUse() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUse
}
