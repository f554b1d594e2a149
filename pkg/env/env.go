package env

import "os"

// Get returns the value of the given environment variable or a fallback.
// Used for the handful of platform variables (PORT, DYNO) that live outside
// the CAMPUSPRINT_ envconfig prefix.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
