package cache

// GetOrCompute is the typed cache-aside read used by the services: return
// the cached value for (region, key) or compute, store and return it.
// Compute errors are returned as-is and nothing is cached.
func GetOrCompute[T any](s *Store, region Region, key string, compute func() (T, error)) (T, error) {
	value, err := s.getOrCompute(region, key, func() (any, error) {
		return compute()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}
