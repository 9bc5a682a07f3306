package configuration

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFromFile applies each readable dotenv file without overriding
// variables already present in the process. It returns the files that were read.
func LoadEnvFromFile(paths ...string) []string {
	loaded := make([]string, 0, len(paths))
	for _, p := range paths {
		values, err := godotenv.Read(p)
		if err != nil {
			continue
		}
		for key, val := range values {
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
		loaded = append(loaded, p)
	}
	return loaded
}
