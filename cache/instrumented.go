package cache

import (
	"time"

	"semsearch.app/metrics"
)

// InstrumentedStorage decorates a Storage with prometheus hit/miss and
// latency metrics. It changes no behavior of the wrapped store.
type InstrumentedStorage struct {
	storage Storage
	metrics *metrics.CacheMetrics
}

func NewInstrumentedStorage(storage Storage, cacheType string) *InstrumentedStorage {
	return &InstrumentedStorage{
		storage: storage,
		metrics: metrics.NewCacheMetrics(cacheType),
	}
}

func (s *InstrumentedStorage) measureLatency(operation string, fn func()) {
	start := time.Now()
	fn()
	latency := time.Since(start).Seconds()
	s.metrics.RecordLatency(operation, latency)
}

func (s *InstrumentedStorage) Get(key string) (string, bool, error) {
	var value string
	var found bool
	var err error

	s.measureLatency("get", func() {
		value, found, err = s.storage.Get(key)
	})

	if found && err == nil {
		s.metrics.RecordHit()
	} else {
		s.metrics.RecordMiss()
	}

	return value, found, err
}

func (s *InstrumentedStorage) Set(key, value string) error {
	var err error
	s.measureLatency("set", func() {
		err = s.storage.Set(key, value)
	})
	return err
}

func (s *InstrumentedStorage) Delete(key string) error {
	return s.storage.Delete(key)
}

func (s *InstrumentedStorage) Keys(prefix string) ([]string, error) {
	return s.storage.Keys(prefix)
}

func (s *InstrumentedStorage) Close() error {
	return s.storage.Close()
}

func (s *InstrumentedStorage) GetMetrics() *metrics.CacheMetrics {
	return s.metrics
}
